// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package view

import (
	"fmt"
	"strings"
)

// Phase is the pointer phase of an input event.
type Phase uint8

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseCancel
)

var phaseNames = [...]string{
	PhaseDown:   "down",
	PhaseMove:   "move",
	PhaseUp:     "up",
	PhaseCancel: "cancel",
}

// String returns the lower-case phase name.
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", p)
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range phaseNames {
		if n == name {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("view: unknown pointer phase %q", text)
}

// Event is a pointer event in screen pixels, origin top-left.
// A zero Pressure is read as full pressure.
type Event struct {
	Phase    Phase   `yaml:"phase"`
	X        float32 `yaml:"x"`
	Y        float32 `yaml:"y"`
	Pressure float32 `yaml:"pressure,omitempty"`
}
