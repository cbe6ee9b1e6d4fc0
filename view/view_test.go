// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/gpu"
	"github.com/gogpu/ink/store"
)

func newTestRenderer(t *testing.T) *gpu.Renderer {
	t.Helper()
	return newConfiguredRenderer(t, ink.DefaultConfig())
}

func newConfiguredRenderer(t *testing.T, cfg ink.Config) *gpu.Renderer {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	r, err := gpu.NewRenderer(openDev.Device, openDev.Queue, cfg)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	t.Cleanup(func() {
		r.Destroy()
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return r
}

// failingStore rejects every append.
type failingStore struct{ appends int }

func (s *failingStore) Append(ink.Stroke) error {
	s.appends++
	return errors.New("disk full")
}

func (s *failingStore) Load() ([]ink.Stroke, error) { return nil, errors.New("unreadable") }

func TestViewEndToEnd(t *testing.T) {
	r := newTestRenderer(t)
	mem := store.NewMemory()
	v := New(r, WithStore(mem))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()

	v.Resize(200, 100)
	v.Handle(Event{Phase: PhaseDown, X: 10, Y: 10})
	for i := 1; i <= 8; i++ {
		v.Handle(Event{Phase: PhaseMove, X: 10 + float32(i)*10, Y: 10})
	}
	v.Handle(Event{Phase: PhaseUp, X: 90, Y: 10})

	img, err := v.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("snapshot bounds = %v", b)
	}

	st := r.State()
	if len(st.Committed) != 1 || st.Active != nil {
		t.Fatalf("state = %d committed, active %v", len(st.Committed), st.Active)
	}
	if n := len(st.Committed[0].Segments); n != 8 {
		t.Errorf("segments = %d, want 8", n)
	}
	if mem.Len() != 1 {
		t.Errorf("store has %d strokes, want 1", mem.Len())
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
}

func TestViewSinkRunsOnRenderGoroutine(t *testing.T) {
	r := newTestRenderer(t)
	v := New(r)
	if err := r.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := r.Resize(64, 64); err != nil {
		t.Fatalf("Resize: %v", err)
	}

	s := ink.Stroke{ID: 5, Width: 3, RawPoints: []ink.InputSample{ink.NewSample(10, 10)}}
	v.Prepare(s)
	if r.Buffers().Has(5) {
		t.Fatal("Prepare ran before the frame")
	}
	if err := r.Frame(); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if !r.Buffers().Has(5) {
		t.Fatal("Prepare did not run in the frame")
	}

	v.Remove(5)
	v.Prepare(ink.Stroke{ID: 6, Width: 3, RawPoints: []ink.InputSample{ink.NewSample(1, 1)}})
	v.Clear()
	if err := r.Frame(); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if r.Buffers().Len() != 0 {
		t.Errorf("buffers left after Clear: %d", r.Buffers().Len())
	}
}

func TestViewUndoReleasesBuffers(t *testing.T) {
	r := newTestRenderer(t)
	v := New(r)
	if err := r.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := r.Resize(100, 100); err != nil {
		t.Fatalf("Resize: %v", err)
	}

	v.Handle(Event{Phase: PhaseDown, X: 10, Y: 10})
	v.Handle(Event{Phase: PhaseMove, X: 40, Y: 30})
	v.Handle(Event{Phase: PhaseUp, X: 70, Y: 10})
	if err := r.Frame(); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	id := v.Capture().Strokes()[0].ID
	if !r.Buffers().Has(id) {
		t.Fatal("committed stroke has no buffer")
	}

	if !v.Capture().Undo() {
		t.Fatal("Undo reported no change")
	}
	if err := r.Frame(); err != nil {
		t.Fatalf("Frame after undo: %v", err)
	}
	if r.Buffers().Has(id) {
		t.Error("undone stroke still has a buffer")
	}

	// A frame drawn from a snapshot that still names the stroke skips it.
	r.Publish(ink.DrawingState{Committed: []ink.Stroke{{ID: id, Width: 3}}})
	if err := r.Frame(); err != nil {
		t.Errorf("Frame with a stale stroke: %v", err)
	}
}

func TestViewFollowsRendererConfig(t *testing.T) {
	cfg := ink.DefaultConfig()
	cfg.MinPointDistSq = 400
	cfg.Width = 7
	r := newConfiguredRenderer(t, cfg)
	if err := r.Resize(200, 200); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	v := New(r)
	if got := v.Capture().Width(); got != 7 {
		t.Errorf("default width = %v, want 7", got)
	}

	v.Handle(Event{Phase: PhaseDown, X: 10, Y: 10})
	v.Handle(Event{Phase: PhaseMove, X: 25, Y: 10}) // 225 is within the filter
	if n := len(v.Capture().Active().RawPoints); n != 1 {
		t.Errorf("raw points = %d, want 1", n)
	}
	v.Handle(Event{Phase: PhaseMove, X: 40, Y: 10})
	if n := len(v.Capture().Active().RawPoints); n != 2 {
		t.Errorf("raw points = %d, want 2", n)
	}

	// An explicit config still wins.
	v2 := New(r, WithConfig(ink.DefaultConfig()))
	if got := v2.Capture().Width(); got != ink.DefaultStrokeWidth {
		t.Errorf("width with WithConfig = %v, want %v", got, ink.DefaultStrokeWidth)
	}
}

func TestViewHandleUsesWorldCoordinates(t *testing.T) {
	r := newTestRenderer(t)
	v := New(r)
	if err := r.Resize(400, 300); err != nil {
		t.Fatalf("Resize: %v", err)
	}

	v.Handle(Event{Phase: PhaseDown, X: 10, Y: 20})
	a := v.Capture().Active()
	if a == nil {
		t.Fatal("no active stroke after down")
	}
	got := a.RawPoints[0]
	if math32.Abs(got.X-10) > 1e-2 || math32.Abs(got.Y-20) > 1e-2 || got.Pressure != 1 {
		t.Errorf("sample = %+v, want (10, 20) at pressure 1", got)
	}

	v.Handle(Event{Phase: PhaseCancel, X: 10, Y: 20})
	if v.Capture().Active() != nil {
		t.Error("cancel should end the gesture")
	}
}

func TestViewRequestRenderNeverBlocks(t *testing.T) {
	v := New(newTestRenderer(t))
	for range 100 {
		v.RequestRender()
	}
	if n := len(v.Requests()); n != 1 {
		t.Errorf("pending requests = %d, want 1", n)
	}
}

func TestViewLoadStore(t *testing.T) {
	r := newTestRenderer(t)
	if err := New(r).LoadStore(); err != nil {
		t.Fatalf("LoadStore without a store: %v", err)
	}

	mem := store.NewMemory()
	saved := ink.Stroke{ID: 77, Width: 2, RawPoints: []ink.InputSample{ink.NewSample(3, 3)}}
	if err := mem.Append(saved); err != nil {
		t.Fatal(err)
	}
	v := New(r, WithStore(mem))
	if err := v.LoadStore(); err != nil {
		t.Fatalf("LoadStore: %v", err)
	}
	if s := v.Capture().Strokes(); len(s) != 1 || s[0].ID != 77 {
		t.Errorf("loaded strokes = %v", s)
	}
	if st := r.State(); len(st.Committed) != 1 {
		t.Errorf("published %d strokes", len(st.Committed))
	}
	// Loading is not a new stroke.
	if mem.Len() != 1 {
		t.Errorf("store grew to %d", mem.Len())
	}

	if err := New(r, WithStore(&failingStore{})).LoadStore(); err == nil {
		t.Error("expected the store's load error")
	}
}

func TestViewStoreErrorsAreLogged(t *testing.T) {
	fs := &failingStore{}
	v := New(newTestRenderer(t), WithStore(fs))
	v.Handle(Event{Phase: PhaseDown, X: 1, Y: 1})
	v.Handle(Event{Phase: PhaseUp, X: 1, Y: 1})
	if fs.appends != 1 {
		t.Errorf("appends = %d, want 1", fs.appends)
	}
	if len(v.Capture().Strokes()) != 1 {
		t.Error("a store failure must not lose the stroke")
	}
}

func TestViewSnapshotHonorsContext(t *testing.T) {
	v := New(newTestRenderer(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := v.Snapshot(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPhaseText(t *testing.T) {
	tests := []struct {
		in      string
		want    Phase
		wantErr bool
	}{
		{"down", PhaseDown, false},
		{"Move", PhaseMove, false},
		{" up ", PhaseUp, false},
		{"cancel", PhaseCancel, false},
		{"hover", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var p Phase
			err := p.UnmarshalText([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && p != tt.want {
				t.Errorf("phase = %v, want %v", p, tt.want)
			}
		})
	}
	if Phase(9).String() != "Phase(9)" {
		t.Errorf("String of unknown phase = %q", Phase(9).String())
	}
}
