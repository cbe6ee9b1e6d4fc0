package ink

import "github.com/chewxy/math32"

// Mat4 is a 4x4 matrix in column-major order, the layout WGSL uniforms
// expect. Element (row r, column c) is at index c*4+r.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho creates an orthographic projection. Passing bottom > top flips
// the Y axis, so Ortho(0, w, h, 0, -1, 1) puts the origin top-left with
// Y growing downwards.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	rw := 1 / (right - left)
	rh := 1 / (top - bottom)
	rd := 1 / (far - near)
	return Mat4{
		2 * rw, 0, 0, 0,
		0, 2 * rh, 0, 0,
		0, 0, -2 * rd, 0,
		-(right + left) * rw, -(top + bottom) * rh, -(far + near) * rd, 1,
	}
}

// LookAt creates a view matrix for a camera at eye looking at center.
func LookAt(eyeX, eyeY, eyeZ, centerX, centerY, centerZ, upX, upY, upZ float32) Mat4 {
	fx, fy, fz := normalize3(centerX-eyeX, centerY-eyeY, centerZ-eyeZ)
	// s = f x up
	sx, sy, sz := normalize3(fy*upZ-fz*upY, fz*upX-fx*upZ, fx*upY-fy*upX)
	// u = s x f
	ux, uy, uz := sy*fz-sz*fy, sz*fx-sx*fz, sx*fy-sy*fx

	return Mat4{
		sx, ux, -fx, 0,
		sy, uy, -fy, 0,
		sz, uz, -fz, 0,
		-(sx*eyeX + sy*eyeY + sz*eyeZ),
		-(ux*eyeX + uy*eyeY + uz*eyeZ),
		fx*eyeX + fy*eyeY + fz*eyeZ,
		1,
	}
}

func normalize3(x, y, z float32) (float32, float32, float32) {
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return 0, 0, 0
	}
	return x / l, y / l, z / l
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[c*4+k]
			}
			r[c*4+row] = sum
		}
	}
	return r
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v [4]float32) [4]float32 {
	var r [4]float32
	for row := 0; row < 4; row++ {
		r[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return r
}

// Invert returns the inverse of m. The boolean is false, and the identity
// is returned, when m is singular.
func (m Mat4) Invert() (Mat4, bool) {
	var inv Mat4

	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] +
		m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] -
		m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] +
		m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] -
		m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] -
		m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] +
		m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] -
		m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] +
		m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] +
		m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] -
		m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] +
		m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] -
		m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] -
		m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] +
		m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] -
		m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] +
		m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	if math32.Abs(det) < 1e-12 {
		return Identity(), false
	}
	invDet := 1 / det
	for i := range inv {
		inv[i] *= invDet
	}
	return inv, true
}

// ScreenToWorld maps a screen position (origin top-left, in pixels) to
// world coordinates by unprojecting through the inverse of proj*view.
// It returns the input unchanged when the matrices are singular or the
// viewport is empty.
func ScreenToWorld(sx, sy float32, width, height int, proj, view Mat4) Point {
	if width <= 0 || height <= 0 {
		return Point{X: sx, Y: sy}
	}
	ndcX := 2*sx/float32(width) - 1
	ndcY := 1 - 2*sy/float32(height)

	inv, ok := proj.Mul(view).Invert()
	if !ok {
		return Point{X: sx, Y: sy}
	}
	out := inv.MulVec4([4]float32{ndcX, ndcY, 0, 1})
	if out[3] == 0 {
		return Point{X: sx, Y: sy}
	}
	return Point{X: out[0] / out[3], Y: out[1] / out[3]}
}
