// Package tessellate converts strokes into flat triangle lists for the GPU.
//
// A curve stroke becomes a ribbon: each Bezier segment is sampled at a
// fixed resolution, every sample is offset by half the stroke width along
// the local normal, and consecutive left/right pairs are joined by two
// triangles. Both ends get a semicircular cap fanned from the endpoint.
// A tap (no segments, a single raw point) becomes a filled disc.
//
// Output is a flat []float32 of x, y pairs, three vertices per triangle,
// ready to upload as a Float32x2 vertex buffer.
package tessellate

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/ink"
)

// Default resolutions.
const (
	DefaultBezierResolution = ink.DefaultBezierResolution
	DefaultCapResolution    = ink.DefaultCapResolution
)

// capInset is the curve parameter used to find the cap direction.
const capInset = 0.01

// Options control sampling density. Zero fields take the defaults.
type Options struct {
	// BezierResolution is the number of samples taken per segment.
	BezierResolution int

	// CapResolution is the number of triangles in a cap or tap dot.
	CapResolution int
}

// OptionsFromConfig extracts tessellation options from a Config.
func OptionsFromConfig(cfg ink.Config) Options {
	return Options{
		BezierResolution: cfg.BezierResolution,
		CapResolution:    cfg.CapResolution,
	}
}

func (o Options) withDefaults() Options {
	if o.BezierResolution <= 0 {
		o.BezierResolution = DefaultBezierResolution
	}
	if o.CapResolution <= 0 {
		o.CapResolution = DefaultCapResolution
	}
	return o
}

// TriangleCount returns the number of triangles Tessellate produces for s
// without generating them.
func TriangleCount(s ink.Stroke, opts Options) int {
	opts = opts.withDefaults()
	if s.Width <= 0 {
		return 0
	}
	switch s.Shape() {
	case ink.ShapeDot:
		return opts.CapResolution
	case ink.ShapeCurve:
		return 2*opts.BezierResolution*len(s.Segments) + 2*opts.CapResolution
	default:
		return 0
	}
}

// Tessellate returns the triangle list for s. Strokes with non-positive
// width, or with neither segments nor exactly one raw point, produce nil;
// callers treat that as nothing to draw.
func Tessellate(s ink.Stroke, opts Options) []float32 {
	opts = opts.withDefaults()
	if s.Width <= 0 {
		return nil
	}
	radius := s.Width / 2

	switch s.Shape() {
	case ink.ShapeDot:
		out := make([]float32, 0, opts.CapResolution*6)
		return appendDisc(out, s.RawPoints[0].Point(), radius, opts.CapResolution)
	case ink.ShapeCurve:
		out := make([]float32, 0, TriangleCount(s, opts)*6)
		out = appendRibbon(out, s.Segments, radius, opts.BezierResolution)

		first, last := s.Segments[0], s.Segments[len(s.Segments)-1]
		startDir := first.Start.Sub(first.Eval(capInset))
		endDir := last.End.Sub(last.Eval(1 - capInset))
		if startDir.LengthSquared() == 0 || endDir.LengthSquared() == 0 {
			// Collapsed end segments carry no direction; fall back to the
			// overall chord, then to the x axis.
			chord := last.End.Sub(first.Start)
			if chord.LengthSquared() == 0 {
				chord = ink.Pt(1, 0)
			}
			if startDir.LengthSquared() == 0 {
				startDir = chord.Mul(-1)
			}
			if endDir.LengthSquared() == 0 {
				endDir = chord
			}
		}
		out = appendCap(out, first.Start, startDir.Angle(), radius, opts.CapResolution)
		out = appendCap(out, last.End, endDir.Angle(), radius, opts.CapResolution)
		return out
	default:
		return nil
	}
}

// sampleCenters samples every segment at t = i/res for i in [0, res) and
// appends the final endpoint once, giving res*len(segs)+1 points.
func sampleCenters(segs []ink.BezierSegment, res int) []ink.Point {
	pts := make([]ink.Point, 0, res*len(segs)+1)
	step := 1 / float32(res)
	for _, seg := range segs {
		for i := 0; i < res; i++ {
			pts = append(pts, seg.Eval(float32(i)*step))
		}
	}
	return append(pts, segs[len(segs)-1].End)
}

// tangents returns a unit tangent per sample. Each tangent points to the
// next sample; the last reuses its predecessor. Zero-length tangents take
// the previous valid one (or the first valid one for a leading run), and a
// fully degenerate run uses the x axis.
func tangents(pts []ink.Point) []ink.Point {
	tans := make([]ink.Point, len(pts))
	firstValid := -1
	for i := 0; i < len(pts)-1; i++ {
		tans[i] = pts[i+1].Sub(pts[i]).Normalize()
		if firstValid < 0 && tans[i] != (ink.Point{}) {
			firstValid = i
		}
	}
	if firstValid < 0 {
		for i := range tans {
			tans[i] = ink.Pt(1, 0)
		}
		return tans
	}
	for i := 0; i < firstValid; i++ {
		tans[i] = tans[firstValid]
	}
	for i := firstValid + 1; i < len(tans); i++ {
		if i == len(tans)-1 || tans[i] == (ink.Point{}) {
			tans[i] = tans[i-1]
		}
	}
	return tans
}

func appendRibbon(out []float32, segs []ink.BezierSegment, radius float32, res int) []float32 {
	pts := sampleCenters(segs, res)
	tans := tangents(pts)

	var prevL, prevR ink.Point
	for i, c := range pts {
		n := tans[i].Perp().Mul(radius)
		curL, curR := c.Add(n), c.Sub(n)
		if i > 0 {
			out = appendTriangle(out, prevL, prevR, curL)
			out = appendTriangle(out, prevR, curR, curL)
		}
		prevL, prevR = curL, curR
	}
	return out
}

// appendCap fans a semicircle around center, sweeping from angle-pi/2 to
// angle+pi/2 so the arc bulges towards angle.
func appendCap(out []float32, center ink.Point, angle, radius float32, res int) []float32 {
	return appendFan(out, center, angle-math32.Pi/2, math32.Pi, radius, res)
}

func appendDisc(out []float32, center ink.Point, radius float32, res int) []float32 {
	return appendFan(out, center, 0, 2*math32.Pi, radius, res)
}

func appendFan(out []float32, center ink.Point, start, sweep, radius float32, res int) []float32 {
	prev := onCircle(center, start, radius)
	for j := 1; j <= res; j++ {
		cur := onCircle(center, start+sweep*float32(j)/float32(res), radius)
		out = appendTriangle(out, center, prev, cur)
		prev = cur
	}
	return out
}

func onCircle(center ink.Point, angle, radius float32) ink.Point {
	return ink.Pt(center.X+radius*math32.Cos(angle), center.Y+radius*math32.Sin(angle))
}

func appendTriangle(out []float32, a, b, c ink.Point) []float32 {
	return append(out, a.X, a.Y, b.X, b.Y, c.X, c.Y)
}
