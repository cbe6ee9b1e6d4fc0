// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/ink"
)

// Option configures a Recorder.
type Option func(*options)

// options holds optional configuration for Recorder creation.
type options struct {
	cfg      ink.Config
	newID    func() int64
	now      func() time.Time
	finished func(ink.Stroke)
	fitter   *ink.Fitter
}

// defaultOptions returns the default recorder options.
func defaultOptions() options {
	return options{
		cfg:   ink.DefaultConfig(),
		newID: randomID,
		now:   time.Now,
	}
}

// WithConfig sets the capture tunables and the initial stroke color,
// width and tool.
func WithConfig(cfg ink.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithIDSource replaces the stroke id generator.
//
// Example:
//
//	var n int64
//	rec := capture.New(sink, capture.WithIDSource(func() int64 { n++; return n }))
func WithIDSource(fn func() int64) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithClock replaces the clock used to throttle render requests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithStrokeFinished registers a callback invoked once for every
// committed stroke, chunks included. It runs on the input goroutine
// after the recorder lock is released.
func WithStrokeFinished(fn func(ink.Stroke)) Option {
	return func(o *options) {
		o.finished = fn
	}
}

// WithFitter sets the curve fitter. By default a fitter with the
// configured tension is used.
func WithFitter(f *ink.Fitter) Option {
	return func(o *options) {
		o.fitter = f
	}
}

// randomID returns the most significant 64 bits of a random UUID.
func randomID() int64 {
	u := uuid.New()
	return int64(binary.BigEndian.Uint64(u[:8])) //nolint:gosec // bit reinterpretation
}
