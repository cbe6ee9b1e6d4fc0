// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import "fmt"

// State is the gesture state of a Recorder.
type State uint8

const (
	// Idle means no pointer is down.
	Idle State = iota

	// Capturing covers one down/move/up gesture, which may span several
	// stroke chunks.
	Capturing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Capturing:
		return "Capturing"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}
