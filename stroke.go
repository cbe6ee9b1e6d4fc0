package ink

import (
	"fmt"
	"strings"
)

// Tool identifies the instrument a stroke was drawn with.
type Tool uint8

const (
	ToolPen Tool = iota
	ToolHighlighter
	ToolEraser
	ToolSelection
	ToolShape
)

var toolNames = [...]string{
	ToolPen:         "pen",
	ToolHighlighter: "highlighter",
	ToolEraser:      "eraser",
	ToolSelection:   "selection",
	ToolShape:       "shape",
}

// String returns the lower-case tool name.
func (t Tool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("Tool(%d)", uint8(t))
}

// ParseTool parses a tool name as produced by String. Matching is
// case-insensitive.
func ParseTool(s string) (Tool, error) {
	for i, name := range toolNames {
		if strings.EqualFold(s, name) {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tool) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tool) UnmarshalText(text []byte) error {
	v, err := ParseTool(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Shape tags what a stroke's geometry represents.
type Shape uint8

const (
	// ShapeNone has nothing to draw.
	ShapeNone Shape = iota
	// ShapeDot is a tap: no segments and exactly one raw point.
	ShapeDot
	// ShapeCurve has at least one Bezier segment.
	ShapeCurve
)

func (s Shape) String() string {
	switch s {
	case ShapeDot:
		return "dot"
	case ShapeCurve:
		return "curve"
	default:
		return "none"
	}
}

// Stroke is one chunk of a freehand gesture. A stroke is mutable only
// while it is the active stroke of a capture; committed strokes are
// treated as immutable.
type Stroke struct {
	ID        int64
	Segments  []BezierSegment
	Color     Color
	Width     float32
	Tool      Tool
	RawPoints []InputSample
}

// Shape classifies the stroke geometry.
func (s *Stroke) Shape() Shape {
	switch {
	case len(s.Segments) > 0:
		return ShapeCurve
	case len(s.RawPoints) == 1:
		return ShapeDot
	default:
		return ShapeNone
	}
}

// DrawColor returns the color used at draw time. Highlighter strokes
// are drawn at half their stored alpha.
func (s *Stroke) DrawColor() Color {
	if s.Tool == ToolHighlighter {
		return s.Color.WithAlpha(s.Color.A() / 2)
	}
	return s.Color
}

// Clone returns a deep copy of the stroke.
func (s *Stroke) Clone() Stroke {
	c := *s
	if s.Segments != nil {
		c.Segments = append([]BezierSegment(nil), s.Segments...)
	}
	if s.RawPoints != nil {
		c.RawPoints = append([]InputSample(nil), s.RawPoints...)
	}
	return c
}

// DrawingState is an immutable snapshot handed from the capture side to
// the renderer. Producers build a fresh value for every publish and never
// mutate one that has been published.
type DrawingState struct {
	Committed []Stroke
	Active    *Stroke
}

// Empty reports whether the snapshot has nothing to draw.
func (d *DrawingState) Empty() bool {
	return len(d.Committed) == 0 && d.Active == nil
}
