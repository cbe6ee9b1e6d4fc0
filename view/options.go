// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package view

import (
	"github.com/gogpu/ink"
	"github.com/gogpu/ink/capture"
	"github.com/gogpu/ink/store"
)

// Option configures a View.
type Option func(*options)

type options struct {
	cfg          ink.Config
	store        store.Store
	recorderOpts []capture.Option
}

func defaultOptions(cfg ink.Config) options {
	return options{cfg: cfg}
}

// WithConfig overrides the capture configuration, which defaults to the
// renderer's.
func WithConfig(cfg ink.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithStore appends every finished stroke to s. Append errors are
// logged and otherwise ignored.
func WithStore(s store.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithRecorderOptions passes extra options to the capture recorder.
// They are applied after the view's own, so a WithStrokeFinished here
// replaces the store hook.
func WithRecorderOptions(opts ...capture.Option) Option {
	return func(o *options) {
		o.recorderOpts = append(o.recorderOpts, opts...)
	}
}
