// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package store

import (
	"sync"

	"github.com/gogpu/ink"
)

// Memory is an in-memory Store.
type Memory struct {
	mu      sync.Mutex
	strokes []ink.Stroke
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

// Append stores a deep copy of s.
func (m *Memory) Append(s ink.Stroke) error {
	m.mu.Lock()
	m.strokes = append(m.strokes, s.Clone())
	m.mu.Unlock()
	return nil
}

// Load returns deep copies of the stored strokes.
func (m *Memory) Load() ([]ink.Stroke, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ink.Stroke, len(m.strokes))
	for i := range m.strokes {
		out[i] = m.strokes[i].Clone()
	}
	return out, nil
}

// Len returns the number of stored strokes.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.strokes)
}

var (
	_ Store = (*File)(nil)
	_ Store = (*Memory)(nil)
)
