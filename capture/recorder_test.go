// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/internal/tessellate"
)

// fakeSink records everything the recorder reports.
type fakeSink struct {
	mu       sync.Mutex
	states   []ink.DrawingState
	prepared []ink.Stroke
	removed  []int64
	clears   int
	renders  int
}

func (s *fakeSink) Publish(st ink.DrawingState) {
	s.mu.Lock()
	s.states = append(s.states, st)
	s.mu.Unlock()
}

func (s *fakeSink) Prepare(st ink.Stroke) {
	s.mu.Lock()
	s.prepared = append(s.prepared, st)
	s.mu.Unlock()
}

func (s *fakeSink) Remove(id int64) {
	s.mu.Lock()
	s.removed = append(s.removed, id)
	s.mu.Unlock()
}

func (s *fakeSink) Clear() {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()
}

func (s *fakeSink) RequestRender() {
	s.mu.Lock()
	s.renders++
	s.mu.Unlock()
}

func (s *fakeSink) last() ink.DrawingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[len(s.states)-1]
}

// sequentialIDs returns an id source counting up from 1.
func sequentialIDs() func() int64 {
	var n int64
	return func() int64 {
		n++
		return n
	}
}

func newTestRecorder(opts ...Option) (*Recorder, *fakeSink) {
	sink := &fakeSink{}
	opts = append([]Option{WithIDSource(sequentialIDs())}, opts...)
	return New(sink, opts...), sink
}

func pt(x, y float32) ink.InputSample { return ink.NewSample(x, y) }

func TestEndToEndGesture(t *testing.T) {
	tests := []struct {
		name     string
		up       ink.InputSample
		segments int
	}{
		{"release on last move", pt(80, 0), 8},
		{"release beyond threshold", pt(90, 0), 9},
		{"release within threshold", pt(82, 0), 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var finished []ink.Stroke
			rec, sink := newTestRecorder(WithStrokeFinished(func(s ink.Stroke) {
				finished = append(finished, s)
			}))

			rec.Down(pt(0, 0))
			for i := 1; i <= 8; i++ {
				rec.Move(pt(float32(i)*10, 0))
			}
			if rec.State() != Capturing {
				t.Fatalf("state = %v during gesture", rec.State())
			}
			rec.Up(tt.up)

			strokes := rec.Strokes()
			if len(strokes) != 1 {
				t.Fatalf("committed %d strokes, want 1", len(strokes))
			}
			s := strokes[0]
			if len(s.Segments) != tt.segments {
				t.Errorf("segments = %d, want %d", len(s.Segments), tt.segments)
			}
			want := 2*tessellate.DefaultBezierResolution*tt.segments + 2*tessellate.DefaultCapResolution
			if got := tessellate.TriangleCount(s, tessellate.Options{}); got != want {
				t.Errorf("triangles = %d, want %d", got, want)
			}

			if rec.State() != Idle || rec.Active() != nil {
				t.Error("recorder should be idle with no active stroke")
			}
			last := sink.last()
			if last.Active != nil || len(last.Committed) != 1 {
				t.Errorf("final snapshot = %d committed, active %v", len(last.Committed), last.Active)
			}
			if len(sink.prepared) != 1 || sink.prepared[0].ID != s.ID {
				t.Errorf("prepared %d strokes, want the committed one", len(sink.prepared))
			}
			if len(finished) != 1 || finished[0].ID != s.ID {
				t.Errorf("finished callback got %d strokes", len(finished))
			}
		})
	}
}

func TestChunkBoundaries(t *testing.T) {
	const chunk = ink.DefaultChunkSizePoints
	rec, sink := newTestRecorder()

	total := chunk * 3
	rec.Down(pt(0, 0))
	for i := 1; i < total; i++ {
		rec.Move(pt(float32(i)*10, 0))
	}
	if got := len(rec.Strokes()); got != 3 {
		t.Fatalf("chunks committed while moving = %d, want 3", got)
	}
	rec.Up(pt(float32(total-1)*10, 0))

	strokes := rec.Strokes()
	if len(strokes) != 4 {
		t.Fatalf("chunks after release = %d, want 4", len(strokes))
	}
	for i := 0; i < 3; i++ {
		if n := len(strokes[i].RawPoints); n != chunk {
			t.Errorf("chunk %d has %d raw points, want %d", i, n, chunk)
		}
	}

	ids := map[int64]bool{}
	for i, s := range strokes {
		if ids[s.ID] {
			t.Errorf("chunk %d reuses id %d", i, s.ID)
		}
		ids[s.ID] = true
		if i == 0 {
			continue
		}
		prev := strokes[i-1].RawPoints
		tail := prev[len(prev)-ink.DefaultContinuityPoints:]
		head := s.RawPoints[:ink.DefaultContinuityPoints]
		if diff := cmp.Diff(tail, head); diff != "" {
			t.Errorf("chunk %d does not continue chunk %d (-tail +head):\n%s", i, i-1, diff)
		}
	}
	if len(sink.prepared) != 4 {
		t.Errorf("prepared %d chunks, want 4", len(sink.prepared))
	}
}

func TestTapBecomesDot(t *testing.T) {
	rec, _ := newTestRecorder()
	rec.Down(pt(50, 50))
	rec.Up(pt(50, 50))

	strokes := rec.Strokes()
	if len(strokes) != 1 {
		t.Fatalf("committed %d strokes, want 1", len(strokes))
	}
	s := strokes[0]
	if s.Shape() != ink.ShapeDot || len(s.RawPoints) != 1 || len(s.Segments) != 0 {
		t.Errorf("tap = shape %v, %d raw, %d segments", s.Shape(), len(s.RawPoints), len(s.Segments))
	}
	if got := tessellate.TriangleCount(s, tessellate.Options{}); got != tessellate.DefaultCapResolution {
		t.Errorf("dot triangles = %d, want %d", got, tessellate.DefaultCapResolution)
	}
}

func TestReleaseNearTapPoint(t *testing.T) {
	tests := []struct {
		name     string
		up       ink.InputSample
		raw      int
		segments int
		shape    ink.Shape
	}{
		{"jitter within the filter is a tap", pt(52, 50), 1, 0, ink.ShapeDot},
		{"release on the filter edge is a tap", pt(53, 50), 1, 0, ink.ShapeDot},
		{"drag beyond the filter is a curve", pt(54, 50), 2, 1, ink.ShapeCurve},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := newTestRecorder()
			rec.Down(pt(50, 50))
			rec.Up(tt.up)

			s := rec.Strokes()[0]
			if len(s.RawPoints) != tt.raw || len(s.Segments) != tt.segments {
				t.Errorf("stroke = %d raw, %d segments, want %d and %d",
					len(s.RawPoints), len(s.Segments), tt.raw, tt.segments)
			}
			if got := s.Shape(); got != tt.shape {
				t.Errorf("shape = %v, want %v", got, tt.shape)
			}
		})
	}
}

func TestInvalidConfigFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ink.Config)
	}{
		{"no continuity points", func(c *ink.Config) { c.ContinuityPoints = 0 }},
		{"no chunk size", func(c *ink.Config) { c.ChunkSizePoints = 0 }},
		{"negative tension", func(c *ink.Config) { c.Tension = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ink.DefaultConfig()
			tt.mutate(&cfg)
			rec, sink := newTestRecorder(WithConfig(cfg))

			rec.Down(pt(0, 0))
			for i := 1; i < 80; i++ {
				rec.Move(pt(float32(i)*10, 0))
			}
			rec.Up(pt(790, 0))

			// Defaults chunk once at 70 points and again on release.
			if got := len(rec.Strokes()); got != 2 {
				t.Errorf("committed strokes = %d, want 2", got)
			}
			if len(sink.prepared) == 0 {
				t.Error("no strokes prepared")
			}
		})
	}
}

func TestMoveFiltering(t *testing.T) {
	rec, sink := newTestRecorder()
	rec.Down(pt(0, 0))
	published := len(sink.states)

	rec.Move(pt(3, 0)) // distance squared 9 is not beyond the threshold
	rec.Move(pt(0, 0))
	if got := len(rec.Active().RawPoints); got != 1 {
		t.Errorf("raw points = %d after filtered moves, want 1", got)
	}
	if len(sink.states) != published {
		t.Error("filtered moves should not publish")
	}

	rec.Move(pt(4, 0))
	if got := len(rec.Active().RawPoints); got != 2 {
		t.Errorf("raw points = %d, want 2", got)
	}
	if len(rec.Active().Segments) != 1 {
		t.Error("active stroke should be re-fit on every accepted move")
	}
}

func TestIdleEventsIgnored(t *testing.T) {
	rec, sink := newTestRecorder()
	rec.Move(pt(10, 10))
	rec.Up(pt(10, 10))
	rec.Cancel(pt(10, 10))
	if len(sink.states) != 0 || sink.renders != 0 || len(rec.Strokes()) != 0 {
		t.Error("events without Down should be ignored")
	}
}

func TestCancelCommitsLikeUp(t *testing.T) {
	rec, _ := newTestRecorder()
	rec.Down(pt(0, 0))
	rec.Move(pt(20, 0))
	rec.Cancel(pt(40, 0))

	if rec.State() != Idle || rec.Active() != nil {
		t.Fatal("cancel should return to idle")
	}
	if s := rec.Strokes(); len(s) != 1 || len(s[0].Segments) != 2 {
		t.Errorf("cancel committed %v", s)
	}
}

func TestDownWhileCapturingFinishesGesture(t *testing.T) {
	rec, _ := newTestRecorder()
	rec.Down(pt(0, 0))
	rec.Move(pt(20, 0))
	rec.Down(pt(100, 100))

	strokes := rec.Strokes()
	if len(strokes) != 1 || len(strokes[0].RawPoints) != 2 {
		t.Fatalf("previous gesture not finished: %v", strokes)
	}
	if a := rec.Active(); a == nil || a.RawPoints[0] != pt(100, 100) {
		t.Errorf("new gesture not started: %v", a)
	}
}

func TestUndoRedo(t *testing.T) {
	rec, sink := newTestRecorder()

	if rec.Undo() || rec.Redo() {
		t.Fatal("undo and redo on an empty drawing should be no-ops")
	}
	if len(sink.states) != 0 || len(sink.removed) != 0 {
		t.Fatal("no-op undo should not touch the sink")
	}

	rec.Down(pt(0, 0))
	rec.Move(pt(20, 0))
	rec.Up(pt(40, 0))
	rec.Down(pt(0, 50))
	rec.Up(pt(40, 50))
	before := rec.Strokes()

	if !rec.Undo() {
		t.Fatal("Undo returned false")
	}
	if got := rec.Strokes(); len(got) != 1 {
		t.Fatalf("strokes after undo = %d", len(got))
	}
	if len(sink.removed) != 1 || sink.removed[0] != before[1].ID {
		t.Errorf("removed = %v, want [%d]", sink.removed, before[1].ID)
	}
	if len(sink.last().Committed) != 1 {
		t.Error("undo should republish")
	}

	if !rec.Redo() {
		t.Fatal("Redo returned false")
	}
	if diff := cmp.Diff(before, rec.Strokes()); diff != "" {
		t.Errorf("redo did not restore the exact stroke (-want +got):\n%s", diff)
	}
	if p := sink.prepared[len(sink.prepared)-1]; p.ID != before[1].ID {
		t.Errorf("redo prepared %d, want %d", p.ID, before[1].ID)
	}

	rec.Undo()
	if !rec.CanRedo() {
		t.Fatal("expected a redo entry")
	}
	rec.Down(pt(5, 5))
	if rec.CanRedo() {
		t.Error("a new gesture should clear the redo shelf")
	}
}

func TestClearAndLoad(t *testing.T) {
	rec, sink := newTestRecorder()
	rec.Down(pt(0, 0))
	rec.Up(pt(30, 0))
	rec.Down(pt(0, 10))

	rec.Clear()
	if rec.State() != Idle || rec.Active() != nil || len(rec.Strokes()) != 0 {
		t.Fatal("clear should drop everything")
	}
	if sink.clears != 1 || !func() bool { st := sink.last(); return st.Empty() }() {
		t.Error("clear should clear buffers and publish an empty state")
	}

	saved := []ink.Stroke{
		{ID: 100, Width: 2, RawPoints: []ink.InputSample{pt(1, 1)}},
		{ID: 101, Width: 2, RawPoints: []ink.InputSample{pt(0, 0), pt(10, 0)}, Segments: ink.NewFitter().Fit([]ink.InputSample{pt(0, 0), pt(10, 0)})},
	}
	prepared := len(sink.prepared)
	rec.Load(saved)
	if diff := cmp.Diff(saved, rec.Strokes()); diff != "" {
		t.Errorf("loaded strokes differ (-want +got):\n%s", diff)
	}
	if sink.clears != 2 || len(sink.prepared)-prepared != 2 {
		t.Errorf("load: clears = %d, prepared %d", sink.clears, len(sink.prepared)-prepared)
	}

	saved[0].ID = 999
	if rec.Strokes()[0].ID != 100 {
		t.Error("Load must not alias the caller's slice")
	}
}

func TestStrokeProperties(t *testing.T) {
	cfg := ink.DefaultConfig()
	cfg.Color = ink.Red
	cfg.Width = 6
	rec, _ := newTestRecorder(WithConfig(cfg))

	if rec.Color() != ink.Red || rec.Width() != 6 || rec.Tool() != ink.ToolPen {
		t.Fatalf("initial properties = %v %v %v", rec.Color(), rec.Width(), rec.Tool())
	}
	rec.SetWidth(-1)
	if rec.Width() != 6 {
		t.Error("non-positive width should be ignored")
	}

	rec.SetTool(ink.ToolHighlighter)
	rec.SetColor(ink.Blue)
	rec.SetWidth(12)
	rec.Down(pt(0, 0))
	rec.Up(pt(20, 0))

	s := rec.Strokes()[0]
	if s.Tool != ink.ToolHighlighter || s.Color != ink.Blue || s.Width != 12 {
		t.Errorf("stroke properties = %v %v %v", s.Tool, s.Color, s.Width)
	}
}

func TestPublishedSnapshotsAreImmutable(t *testing.T) {
	rec, sink := newTestRecorder()
	rec.Down(pt(0, 0))
	rec.Move(pt(10, 0))
	snap := sink.last()
	n := len(snap.Active.RawPoints)

	rec.Move(pt(20, 0))
	rec.Move(pt(30, 0))
	if len(snap.Active.RawPoints) != n || len(snap.Active.Segments) != n-1 {
		t.Error("a published snapshot changed after later moves")
	}
}

func TestRenderRequestsAreThrottled(t *testing.T) {
	now := time.Unix(0, 0)
	rec, sink := newTestRecorder(WithClock(func() time.Time { return now }))

	rec.Down(pt(0, 0))
	if sink.renders != 1 {
		t.Fatalf("renders after Down = %d, want 1", sink.renders)
	}
	now = now.Add(5 * time.Millisecond)
	rec.Move(pt(10, 0))
	if sink.renders != 1 {
		t.Errorf("move inside the interval requested a render")
	}
	now = now.Add(12 * time.Millisecond)
	rec.Move(pt(20, 0))
	if sink.renders != 2 {
		t.Errorf("renders = %d after the interval, want 2", sink.renders)
	}
	rec.Up(pt(20, 0))
	if sink.renders != 3 {
		t.Errorf("Up should always request a render, renders = %d", sink.renders)
	}
}

func TestDefaultIDs(t *testing.T) {
	sink := &fakeSink{}
	rec := New(sink)
	seen := map[int64]bool{}
	for i := range 50 {
		rec.Down(pt(float32(i), 0))
		rec.Up(pt(float32(i), 0))
	}
	for _, s := range rec.Strokes() {
		if seen[s.ID] {
			t.Fatalf("duplicate id %d", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestConcurrentUse(t *testing.T) {
	rec, _ := newTestRecorder()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for g := range 20 {
			rec.Down(pt(0, float32(g)*10))
			for i := 1; i < 30; i++ {
				rec.Move(pt(float32(i)*5, float32(g)*10))
			}
			rec.Up(pt(150, float32(g)*10))
		}
	}()
	go func() {
		defer wg.Done()
		for range 20 {
			rec.Undo()
			_ = rec.Strokes()
			rec.Redo()
		}
	}()
	wg.Wait()
	if rec.State() != Idle {
		t.Errorf("state = %v after all gestures ended", rec.State())
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Idle, "Idle"},
		{Capturing, "Capturing"},
		{State(9), "State(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
