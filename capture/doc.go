// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package capture implements the stroke capture state machine.
//
// A [Recorder] receives pointer samples in world coordinates, filters
// them, fits Bezier segments and commits finished strokes. It never
// touches the GPU: every change is reported to a [Sink] as an immutable
// [ink.DrawingState] snapshot plus buffer operations the sink runs on its
// render goroutine.
//
//	rec := capture.New(sink, capture.WithConfig(cfg))
//	rec.Down(ink.NewSample(10, 10))
//	rec.Move(ink.NewSample(40, 25))
//	rec.Up(ink.NewSample(80, 30))
//	rec.Undo()
package capture
