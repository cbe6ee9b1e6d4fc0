// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

// Package view connects pointer input, the capture recorder and the GPU
// renderer.
//
// Input arrives on any goroutine through Handle. The recorder publishes
// snapshots straight to the renderer and turns buffer work into renderer
// tasks. Run is the render loop: it waits for render requests and draws
// a frame for each.
//
//	v := view.New(renderer, view.WithStore(s))
//	go v.Run(ctx)
//	v.Resize(800, 600)
//	v.Handle(view.Event{Phase: view.PhaseDown, X: 10, Y: 10})
package view

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/capture"
	"github.com/gogpu/ink/gpu"
	"github.com/gogpu/ink/store"
)

// snapshotResult carries a readback from the render loop.
type snapshotResult struct {
	img *image.RGBA
	err error
}

// View is a drawing surface. It implements capture.Sink.
type View struct {
	renderer *gpu.Renderer
	rec      *capture.Recorder
	store    store.Store

	requests  chan struct{}
	snapshots chan chan snapshotResult
}

// New creates a view drawing with r.
func New(r *gpu.Renderer, opts ...Option) *View {
	o := defaultOptions(r.Config())
	for _, opt := range opts {
		opt(&o)
	}
	v := &View{
		renderer:  r,
		store:     o.store,
		requests:  make(chan struct{}, 1),
		snapshots: make(chan chan snapshotResult),
	}
	recOpts := []capture.Option{
		capture.WithConfig(o.cfg),
		capture.WithStrokeFinished(v.persist),
	}
	v.rec = capture.New(v, append(recOpts, o.recorderOpts...)...)
	return v
}

// Capture returns the recorder for undo, redo, clear and tool changes.
func (v *View) Capture() *capture.Recorder { return v.rec }

// Renderer returns the renderer.
func (v *View) Renderer() *gpu.Renderer { return v.renderer }

// Requests delivers render requests. Hosts that draw into their own
// surface read it instead of calling Run, and call FrameTo per request.
func (v *View) Requests() <-chan struct{} { return v.requests }

// Handle converts e to world coordinates and feeds it to the recorder.
func (v *View) Handle(e Event) {
	w, h := v.renderer.Size()
	p := ink.ScreenToWorld(e.X, e.Y, w, h, v.renderer.Projection(), v.renderer.View())
	pressure := e.Pressure
	if pressure == 0 {
		pressure = 1
	}
	s := ink.InputSample{X: p.X, Y: p.Y, Pressure: pressure}

	switch e.Phase {
	case PhaseDown:
		v.rec.Down(s)
	case PhaseMove:
		v.rec.Move(s)
	case PhaseUp:
		v.rec.Up(s)
	case PhaseCancel:
		v.rec.Cancel(s)
	default:
		slogger().Debug("ignoring pointer event", slog.String("phase", e.Phase.String()))
	}
}

// Resize schedules a resize of the drawable and requests a frame.
func (v *View) Resize(width, height int) {
	v.renderer.Enqueue(func() {
		if err := v.renderer.Resize(width, height); err != nil {
			slogger().Warn("resize failed",
				slog.Int("width", width),
				slog.Int("height", height),
				slog.String("error", err.Error()))
		}
	})
	v.RequestRender()
}

// LoadStore replaces the drawing with the strokes saved in the view's
// store. It is a no-op without a store.
func (v *View) LoadStore() error {
	if v.store == nil {
		return nil
	}
	strokes, err := v.store.Load()
	if err != nil {
		return err
	}
	v.rec.Load(strokes)
	return nil
}

// Run initializes the renderer and draws a frame for every render
// request until ctx is done. Frame errors are logged; only pipeline
// setup failures are returned.
func (v *View) Run(ctx context.Context) error {
	if err := v.renderer.Init(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-v.requests:
			v.frame()
		case resp := <-v.snapshots:
			img, err := v.renderer.Snapshot()
			resp <- snapshotResult{img: img, err: err}
		}
	}
}

func (v *View) frame() {
	err := v.renderer.Frame()
	switch {
	case err == nil:
	case errors.Is(err, gpu.ErrNotReady):
		slogger().Debug("frame skipped, renderer not ready")
	default:
		slogger().Warn("frame failed", slog.String("error", err.Error()))
	}
}

// Snapshot asks the render loop for a readback of the current drawing.
// Run must be active.
func (v *View) Snapshot(ctx context.Context) (*image.RGBA, error) {
	resp := make(chan snapshotResult, 1)
	select {
	case v.snapshots <- resp:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-resp:
		return r.img, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Publish implements capture.Sink.
func (v *View) Publish(state ink.DrawingState) {
	v.renderer.Publish(state)
}

// Prepare implements capture.Sink.
func (v *View) Prepare(s ink.Stroke) {
	v.renderer.Enqueue(func() {
		b := v.renderer.Buffers()
		if b == nil {
			return
		}
		if err := b.Prepare(s); err != nil {
			slogger().Warn("prepare stroke failed",
				slog.Int64("id", s.ID),
				slog.String("error", err.Error()))
		}
	})
}

// Remove implements capture.Sink.
func (v *View) Remove(id int64) {
	v.renderer.Enqueue(func() {
		if b := v.renderer.Buffers(); b != nil {
			b.Remove(id)
		}
	})
}

// Clear implements capture.Sink.
func (v *View) Clear() {
	v.renderer.Enqueue(func() {
		if b := v.renderer.Buffers(); b != nil {
			b.Clear()
		}
	})
}

// RequestRender implements capture.Sink. It never blocks; requests made
// while one is pending are merged.
func (v *View) RequestRender() {
	select {
	case v.requests <- struct{}{}:
	default:
	}
}

func (v *View) persist(s ink.Stroke) {
	if v.store == nil {
		return
	}
	if err := v.store.Append(s); err != nil {
		slogger().Warn("persist stroke failed",
			slog.Int64("id", s.ID),
			slog.String("error", err.Error()))
	}
}

var _ capture.Sink = (*View)(nil)
