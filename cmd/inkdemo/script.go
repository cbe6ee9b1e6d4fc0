// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package main

import (
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/view"
)

// script is a recorded drawing session.
//
// Example:
//
//	gestures:
//	  - tool: highlighter
//	    color: "#FFFFD600"
//	    width: 18
//	    points: [[40, 60], [200, 64], [360, 58]]
//	  - events:
//	      - {phase: down, x: 100, y: 200}
//	      - {phase: move, x: 140, y: 230}
//	      - {phase: up, x: 180, y: 200}
//	undo: 1
type script struct {
	Gestures []gesture `yaml:"gestures"`
	Undo     int       `yaml:"undo"`
	Redo     int       `yaml:"redo"`
}

// gesture is one pointer gesture. Points is shorthand for a down at the
// first point, moves through the rest and an up at the last.
type gesture struct {
	Tool   *ink.Tool    `yaml:"tool"`
	Color  *ink.Color   `yaml:"color"`
	Width  float32      `yaml:"width"`
	Points [][2]float32 `yaml:"points"`
	Events []view.Event `yaml:"events"`
}

func loadScript(path string) (*script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s script
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script %s: %w", path, err)
	}
	return &s, nil
}

// events expands the gesture into pointer events.
func (g gesture) events() []view.Event {
	if len(g.Events) > 0 {
		return g.Events
	}
	if len(g.Points) == 0 {
		return nil
	}
	out := make([]view.Event, 0, len(g.Points)+1)
	for i, p := range g.Points {
		phase := view.PhaseMove
		if i == 0 {
			phase = view.PhaseDown
		}
		out = append(out, view.Event{Phase: phase, X: p[0], Y: p[1]})
	}
	last := g.Points[len(g.Points)-1]
	return append(out, view.Event{Phase: view.PhaseUp, X: last[0], Y: last[1]})
}

// replay feeds the script into v.
func (s *script) replay(v *view.View) {
	rec := v.Capture()
	for _, g := range s.Gestures {
		if g.Tool != nil {
			rec.SetTool(*g.Tool)
		}
		if g.Color != nil {
			rec.SetColor(*g.Color)
		}
		if g.Width > 0 {
			rec.SetWidth(g.Width)
		}
		for _, e := range g.events() {
			v.Handle(e)
		}
	}
	for range s.Undo {
		rec.Undo()
	}
	for range s.Redo {
		rec.Redo()
	}
}

// demoScript draws a spiral, a highlighted underline and a dot scaled to
// a w by h canvas.
func demoScript(w, h int) *script {
	cx, cy := float32(w)/2, float32(h)/2
	maxR := 0.4 * float32(min(w, h))

	var spiral [][2]float32
	for i := 0; i <= 400; i++ {
		t := float32(i) / 400
		a := t * 6 * math32.Pi
		r := t * maxR
		spiral = append(spiral, [2]float32{cx + r*math32.Cos(a), cy + r*math32.Sin(a)})
	}

	blue, yellow := ink.ARGB(0xFF, 0x1E, 0x40, 0xAF), ink.ARGB(0xFF, 0xFF, 0xD6, 0x00)
	pen, highlighter := ink.ToolPen, ink.ToolHighlighter
	underY := cy + maxR + 0.05*float32(h)
	return &script{Gestures: []gesture{
		{
			Tool: &highlighter, Color: &yellow, Width: 18,
			Points: [][2]float32{{cx - maxR, underY}, {cx, underY + 4}, {cx + maxR, underY}},
		},
		{Tool: &pen, Color: &blue, Width: 4, Points: spiral},
		{Width: 10, Points: [][2]float32{{cx + maxR, cy - maxR}}},
	}}
}
