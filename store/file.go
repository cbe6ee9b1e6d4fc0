// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/gogpu/ink"
)

// maxLineSize bounds a single record when loading.
const maxLineSize = 16 << 20

// File is an append-only JSON-lines stroke log.
//
// File is safe for concurrent use.
type File struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// Open opens or creates the log at path.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &File{path: path, f: f}, nil
}

// Path returns the file path.
func (s *File) Path() string { return s.path }

// Append writes s as one line.
func (s *File) Append(st ink.Stroke) error {
	line, err := json.Marshal(toRecord(st))
	if err != nil {
		return fmt.Errorf("store: encode stroke %d: %w", st.ID, err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return ErrClosed
	}
	if _, err := s.f.Write(line); err != nil {
		return fmt.Errorf("store: append stroke %d: %w", st.ID, err)
	}
	return nil
}

// Load reads every stroke in the log. Blank lines are skipped; any other
// undecodable line fails with ErrCorrupt.
func (s *File) Load() ([]ink.Stroke, error) {
	s.mu.Lock()
	closed := s.f == nil
	s.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", s.path, err)
	}
	defer f.Close()

	var strokes []ink.Stroke
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	for n := 1; sc.Scan(); n++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var r record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrCorrupt, n, err)
		}
		strokes = append(strokes, r.stroke())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	return strokes, nil
}

// Close closes the log. Further calls return ErrClosed.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return ErrClosed
	}
	err := s.f.Close()
	s.f = nil
	return err
}
