// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/ink"
)

// Sink receives the recorder's output. Publish hands over an immutable
// snapshot; Prepare, Remove and Clear are GPU buffer operations the sink
// runs on its render goroutine; RequestRender asks for a new frame.
//
// The recorder calls Publish, Prepare, Remove and Clear while holding its
// lock, so implementations must not block or call back into the Recorder.
type Sink interface {
	Publish(state ink.DrawingState)
	Prepare(stroke ink.Stroke)
	Remove(id int64)
	Clear()
	RequestRender()
}

// Recorder turns pointer samples into committed strokes.
//
// A gesture starts with Down, grows with Move and ends with Up or Cancel.
// Samples closer than MinPointDistSq to the last accepted one are
// dropped. Once the active chunk holds ChunkSizePoints raw points it is
// committed and a new chunk starts from its last ContinuityPoints points,
// so long gestures become several strokes that overlap at the seams.
//
// All methods are safe for concurrent use.
type Recorder struct {
	sink     Sink
	cfg      ink.Config
	fitter   *ink.Fitter
	newID    func() int64
	finished func(ink.Stroke)
	throttle *Throttle

	mu        sync.Mutex
	state     State
	committed []ink.Stroke
	redo      []ink.Stroke
	active    *ink.Stroke
	color     ink.Color
	width     float32
	tool      ink.Tool
}

// New creates a recorder that reports to sink. An invalid configuration
// is logged and replaced by ink.DefaultConfig.
func New(sink Sink, opts ...Option) *Recorder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		slogger().Warn("invalid capture config, using defaults", slog.String("error", err.Error()))
		o.cfg = ink.DefaultConfig()
	}
	fitter := o.fitter
	if fitter == nil {
		fitter = &ink.Fitter{Tension: o.cfg.Tension}
	}
	return &Recorder{
		sink:     sink,
		cfg:      o.cfg,
		fitter:   fitter,
		newID:    o.newID,
		finished: o.finished,
		throttle: NewThrottle(o.cfg.FrameInterval.Std(), o.now),
		color:    o.cfg.Color,
		width:    o.cfg.Width,
		tool:     o.cfg.Tool,
	}
}

// Down starts a gesture at s. A gesture still in progress is finished
// first at its last accepted sample. Down clears the redo shelf.
func (r *Recorder) Down(s ink.InputSample) {
	r.mu.Lock()
	var done []ink.Stroke
	if r.state == Capturing {
		a := r.active
		done = append(done, r.finishLocked(a.RawPoints[len(a.RawPoints)-1]))
	}
	r.redo = nil
	r.fitter.Reset()
	r.active = &ink.Stroke{
		ID:        r.newID(),
		Color:     r.color,
		Width:     r.width,
		Tool:      r.tool,
		RawPoints: []ink.InputSample{s},
	}
	r.state = Capturing
	r.publishLocked()
	r.mu.Unlock()

	r.notify(done)
	r.requestThrottled()
}

// Move extends the active gesture. It is ignored when idle or when s is
// too close to the last accepted sample.
func (r *Recorder) Move(s ink.InputSample) {
	r.mu.Lock()
	if r.state != Capturing {
		r.mu.Unlock()
		return
	}
	a := r.active
	if !r.farEnough(s, a) {
		r.mu.Unlock()
		return
	}
	a.RawPoints = append(a.RawPoints, s)

	var done []ink.Stroke
	if len(a.RawPoints) >= r.cfg.ChunkSizePoints {
		a.Segments = r.fitter.Fit(a.RawPoints)
		chunk := *a
		r.commitLocked(chunk)
		done = append(done, chunk)
		slogger().Debug("stroke chunk committed",
			slog.Int64("id", chunk.ID),
			slog.Int("points", len(chunk.RawPoints)),
			slog.Int("segments", len(chunk.Segments)))

		r.active = r.nextChunk(chunk, s)
		a = r.active
	}
	a.Segments = r.fitter.Fit(a.RawPoints)
	r.publishLocked()
	r.mu.Unlock()

	r.notify(done)
	r.requestThrottled()
}

// Up ends the gesture at s and commits the final chunk. s is kept only
// when it passes the move filter, so a gesture that never got beyond it
// from its first sample becomes a dot: one raw point, no segments.
func (r *Recorder) Up(s ink.InputSample) {
	r.mu.Lock()
	if r.state != Capturing {
		r.mu.Unlock()
		return
	}
	final := r.finishLocked(s)
	r.publishLocked()
	r.mu.Unlock()

	r.notify([]ink.Stroke{final})
	r.sink.RequestRender()
}

// Cancel ends a gesture whose pointer was lost. It behaves exactly like Up.
func (r *Recorder) Cancel(s ink.InputSample) {
	r.Up(s)
}

// Undo moves the most recent committed stroke onto the redo shelf.
// It reports whether anything changed.
func (r *Recorder) Undo() bool {
	r.mu.Lock()
	n := len(r.committed)
	if n == 0 {
		r.mu.Unlock()
		return false
	}
	last := r.committed[n-1]
	r.committed = r.committed[:n-1]
	r.redo = append(r.redo, last)
	r.sink.Remove(last.ID)
	r.publishLocked()
	r.mu.Unlock()

	r.sink.RequestRender()
	return true
}

// Redo re-commits the most recently undone stroke. It reports whether
// anything changed.
func (r *Recorder) Redo() bool {
	r.mu.Lock()
	n := len(r.redo)
	if n == 0 {
		r.mu.Unlock()
		return false
	}
	s := r.redo[n-1]
	r.redo = r.redo[:n-1]
	r.commitLocked(s)
	r.publishLocked()
	r.mu.Unlock()

	r.sink.RequestRender()
	return true
}

// Clear discards every stroke, the active gesture and the redo shelf.
func (r *Recorder) Clear() {
	r.mu.Lock()
	r.committed = nil
	r.redo = nil
	r.active = nil
	r.state = Idle
	r.fitter.Reset()
	r.sink.Clear()
	r.publishLocked()
	r.mu.Unlock()

	r.sink.RequestRender()
}

// Load replaces the drawing with strokes, for example a saved document.
// Any gesture in progress is dropped.
func (r *Recorder) Load(strokes []ink.Stroke) {
	r.mu.Lock()
	r.committed = slices.Clone(strokes)
	r.redo = nil
	r.active = nil
	r.state = Idle
	r.sink.Clear()
	for _, s := range r.committed {
		r.sink.Prepare(s)
	}
	r.publishLocked()
	r.mu.Unlock()

	r.sink.RequestRender()
}

// SetColor sets the color of the next gesture.
func (r *Recorder) SetColor(c ink.Color) {
	r.mu.Lock()
	r.color = c
	r.mu.Unlock()
}

// SetWidth sets the width of the next gesture. Non-positive widths are
// ignored.
func (r *Recorder) SetWidth(w float32) {
	if w <= 0 {
		return
	}
	r.mu.Lock()
	r.width = w
	r.mu.Unlock()
}

// SetTool sets the tool of the next gesture.
func (r *Recorder) SetTool(t ink.Tool) {
	r.mu.Lock()
	r.tool = t
	r.mu.Unlock()
}

// Color returns the color of the next gesture.
func (r *Recorder) Color() ink.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.color
}

// Width returns the width of the next gesture.
func (r *Recorder) Width() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width
}

// Tool returns the tool of the next gesture.
func (r *Recorder) Tool() ink.Tool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tool
}

// State returns the gesture state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Strokes returns a copy of the committed strokes.
func (r *Recorder) Strokes() []ink.Stroke {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.committed)
}

// Active returns a copy of the active chunk, or nil when idle.
func (r *Recorder) Active() *ink.Stroke {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return nil
	}
	c := r.active.Clone()
	return &c
}

// CanUndo reports whether Undo would change anything.
func (r *Recorder) CanUndo() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed) > 0
}

// CanRedo reports whether Redo would change anything.
func (r *Recorder) CanRedo() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.redo) > 0
}

// finishLocked appends the closing sample when it moved, fits and commits
// the active chunk and returns to Idle.
func (r *Recorder) finishLocked(s ink.InputSample) ink.Stroke {
	a := r.active
	last := a.RawPoints[len(a.RawPoints)-1]
	d := s.Point().DistanceSquared(last.Point())
	// A release within the filter distance of a lone point is a tap.
	if d > r.cfg.MinPointDistSq {
		a.RawPoints = append(a.RawPoints, s)
	}
	a.Segments = r.fitter.Fit(a.RawPoints)

	final := *a
	r.commitLocked(final)
	r.active = nil
	r.state = Idle
	r.fitter.Reset()
	return final
}

// nextChunk starts a chunk seeded with the tail of prev.
func (r *Recorder) nextChunk(prev ink.Stroke, s ink.InputSample) *ink.Stroke {
	var seed []ink.InputSample
	if n := len(prev.RawPoints); n >= 2 {
		k := min(r.cfg.ContinuityPoints, n)
		seed = append(seed, prev.RawPoints[n-k:]...)
	} else {
		seed = []ink.InputSample{s}
	}
	return &ink.Stroke{
		ID:        r.newID(),
		Color:     prev.Color,
		Width:     prev.Width,
		Tool:      prev.Tool,
		RawPoints: seed,
	}
}

func (r *Recorder) farEnough(s ink.InputSample, a *ink.Stroke) bool {
	last := a.RawPoints[len(a.RawPoints)-1]
	return s.Point().DistanceSquared(last.Point()) > r.cfg.MinPointDistSq
}

func (r *Recorder) commitLocked(s ink.Stroke) {
	r.committed = append(r.committed, s)
	r.sink.Prepare(s)
}

// publishLocked hands the sink a snapshot that shares nothing mutable
// with the recorder.
func (r *Recorder) publishLocked() {
	state := ink.DrawingState{Committed: slices.Clone(r.committed)}
	if r.active != nil {
		c := r.active.Clone()
		state.Active = &c
	}
	r.sink.Publish(state)
}

func (r *Recorder) notify(done []ink.Stroke) {
	if r.finished == nil {
		return
	}
	for _, s := range done {
		r.finished(s)
	}
}

func (r *Recorder) requestThrottled() {
	if r.throttle.Allow() {
		r.sink.RequestRender()
	}
}
