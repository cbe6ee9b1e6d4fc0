package ink

// BezierSegment is a cubic Bezier curve with control points P0..P3.
// Start and End lie on the curve; Control1 and Control2 shape it.
type BezierSegment struct {
	Start    Point
	Control1 Point
	Control2 Point
	End      Point
}

// NewSegment creates a cubic Bezier segment.
func NewSegment(p0, p1, p2, p3 Point) BezierSegment {
	return BezierSegment{Start: p0, Control1: p1, Control2: p2, End: p3}
}

// Eval evaluates the curve at parameter t (0 to 1).
func (s BezierSegment) Eval(t float32) Point {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	// (1-t)^3 * P0 + 3(1-t)^2*t * P1 + 3(1-t)*t^2 * P2 + t^3 * P3
	return Point{
		X: mt3*s.Start.X + 3*mt2*t*s.Control1.X + 3*mt*t2*s.Control2.X + t3*s.End.X,
		Y: mt3*s.Start.Y + 3*mt2*t*s.Control1.Y + 3*mt*t2*s.Control2.Y + t3*s.End.Y,
	}
}

// IsPoint reports whether all four control points coincide.
func (s BezierSegment) IsPoint() bool {
	return s.Start == s.Control1 && s.Start == s.Control2 && s.Start == s.End
}
