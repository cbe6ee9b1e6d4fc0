// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package store persists finished strokes.
//
// [File] keeps one JSON object per line and only ever appends, so a crash
// loses at most the stroke being written. [Memory] keeps strokes in
// memory for tests and ephemeral sessions.
package store

import (
	"errors"

	"github.com/gogpu/ink"
)

var (
	// ErrCorrupt is returned by Load when a record cannot be decoded.
	// The error text carries the 1-based line number.
	ErrCorrupt = errors.New("store: corrupt stroke record")

	// ErrClosed is returned when using a store after Close.
	ErrClosed = errors.New("store: closed")
)

// Store receives finished strokes and returns them in append order.
type Store interface {
	Append(s ink.Stroke) error
	Load() ([]ink.Stroke, error)
}

// record is the serialized form of a stroke.
type record struct {
	ID       int64     `json:"id"`
	Color    ink.Color `json:"color"`
	Width    float32   `json:"width"`
	Tool     ink.Tool  `json:"tool"`
	Segments []segment `json:"segments,omitempty"`
	Points   []sample  `json:"points,omitempty"`
}

type point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type segment struct {
	Start    point `json:"start"`
	Control1 point `json:"c1"`
	Control2 point `json:"c2"`
	End      point `json:"end"`
}

type sample struct {
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	Pressure float32 `json:"p"`
}

func toRecord(s ink.Stroke) record {
	r := record{ID: s.ID, Color: s.Color, Width: s.Width, Tool: s.Tool}
	if len(s.Segments) > 0 {
		r.Segments = make([]segment, len(s.Segments))
		for i, seg := range s.Segments {
			r.Segments[i] = segment{
				Start:    point(seg.Start),
				Control1: point(seg.Control1),
				Control2: point(seg.Control2),
				End:      point(seg.End),
			}
		}
	}
	if len(s.RawPoints) > 0 {
		r.Points = make([]sample, len(s.RawPoints))
		for i, p := range s.RawPoints {
			r.Points[i] = sample(p)
		}
	}
	return r
}

func (r record) stroke() ink.Stroke {
	s := ink.Stroke{ID: r.ID, Color: r.Color, Width: r.Width, Tool: r.Tool}
	if len(r.Segments) > 0 {
		s.Segments = make([]ink.BezierSegment, len(r.Segments))
		for i, seg := range r.Segments {
			s.Segments[i] = ink.BezierSegment{
				Start:    ink.Point(seg.Start),
				Control1: ink.Point(seg.Control1),
				Control2: ink.Point(seg.Control2),
				End:      ink.Point(seg.End),
			}
		}
	}
	if len(r.Points) > 0 {
		s.RawPoints = make([]ink.InputSample, len(r.Points))
		for i, p := range r.Points {
			s.RawPoints[i] = ink.InputSample(p)
		}
	}
	return s
}
