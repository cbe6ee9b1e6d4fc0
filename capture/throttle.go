// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import (
	"sync"
	"time"
)

// Throttle limits how often an action may run. The first call is always
// allowed; later calls are allowed once interval has passed since the
// last allowed one. Calls in between are dropped, not deferred.
//
// Throttle is safe for concurrent use.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	last     time.Time
	primed   bool
}

// NewThrottle creates a throttle. A nil clock means time.Now.
func NewThrottle(interval time.Duration, now func() time.Time) *Throttle {
	if now == nil {
		now = time.Now
	}
	return &Throttle{interval: interval, now: now}
}

// Allow reports whether the action may run now and, if so, records it.
func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if t.primed && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	t.primed = true
	return true
}

// Reset forgets the last allowed call.
func (t *Throttle) Reset() {
	t.mu.Lock()
	t.primed = false
	t.mu.Unlock()
}
