package ink

// DefaultTension scales the tangent handles relative to the chord length.
const DefaultTension = 0.3

// Fitter converts sampled points into cubic Bezier segments, one segment
// per consecutive pair of samples. Tangents are estimated from the
// neighbouring samples (Catmull-Rom style), so the curve passes through
// every input point.
//
// Fit is a pure function of its input; a Fitter carries no state between
// calls and may be shared.
type Fitter struct {
	// Tension scales the control point distance. Zero means DefaultTension.
	Tension float32
}

// NewFitter returns a Fitter using DefaultTension.
func NewFitter() *Fitter {
	return &Fitter{Tension: DefaultTension}
}

// Reset prepares the fitter for a new stroke. It is a no-op.
func (f *Fitter) Reset() {}

func (f *Fitter) tension() float32 {
	if f == nil || f.Tension == 0 {
		return DefaultTension
	}
	return f.Tension
}

// Fit returns the segments for points. Fewer than two points yield nil.
// Two points yield a single straight segment whose control points equal
// the endpoints.
func (f *Fitter) Fit(points []InputSample) []BezierSegment {
	n := len(points)
	if n < 2 {
		return nil
	}
	if n == 2 {
		p0, p1 := points[0].Point(), points[1].Point()
		return []BezierSegment{{Start: p0, Control1: p0, Control2: p1, End: p1}}
	}

	tension := f.tension()
	segments := make([]BezierSegment, 0, n-1)
	for i := 0; i < n-1; i++ {
		p0 := points[i].Point()
		p3 := points[i+1].Point()

		prev := p0
		if i > 0 {
			prev = points[i-1].Point()
		}
		next := p3
		if i+2 < n {
			next = points[i+2].Point()
		}

		t0 := p3.Sub(prev).Normalize()
		t1 := next.Sub(p0).Normalize()
		handle := p3.Sub(p0).Length() * tension

		segments = append(segments, BezierSegment{
			Start:    p0,
			Control1: p0.Add(t0.Mul(handle)),
			Control2: p3.Sub(t1.Mul(handle)),
			End:      p3,
		})
	}
	return segments
}
