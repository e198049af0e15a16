package math

import "math"

// Mat4 uses the row-vector convention: points transform as v * M, the
// translation lives in m[3][0..2], and a.Mul(b) applies a first, then b.
// The memory layout is what OpenGL expects for column vectors.
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[i][k] * other[k][j]
			}
			result[i][j] = sum
		}
	}
	return result
}

// MulPoint transforms a position (w = 1) and divides by w.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return v.ToVec4(1).MulMat(m).ToVec3DivW()
}

// Translation returns the translation part of an affine matrix.
func (m Mat4) Translation() Vec3 {
	return Vec3{X: m[3][0], Y: m[3][1], Z: m[3][2]}
}

func Mat4Translation(translation Vec3) Mat4 {
	m := Mat4Identity()
	m[3][0] = translation.X
	m[3][1] = translation.Y
	m[3][2] = translation.Z
	return m
}

func Mat4Scale(scale Vec3) Mat4 {
	m := Mat4Identity()
	m[0][0] = scale.X
	m[1][1] = scale.Y
	m[2][2] = scale.Z
	return m
}

// Mat4Compose builds scale, then rotation, then translation.
func Mat4Compose(translation Vec3, rotation Quaternion, scale Vec3) Mat4 {
	m := rotation.ToMat4()
	for j := 0; j < 3; j++ {
		m[0][j] *= scale.X
		m[1][j] *= scale.Y
		m[2][j] *= scale.Z
	}
	m[3][0] = translation.X
	m[3][1] = translation.Y
	m[3][2] = translation.Z
	return m
}

func Mat4Perspective(fovY, aspect, near, far float32) Mat4 {
	tanHalfFovy := float32(math.Tan(float64(fovY) / 2))

	var m Mat4
	m[0][0] = 1 / (aspect * tanHalfFovy)
	m[1][1] = 1 / tanHalfFovy
	m[2][2] = -(far + near) / (far - near)
	m[2][3] = -1
	m[3][2] = -(2 * far * near) / (far - near)
	return m
}

func Mat4Orthographic(left, right, bottom, top, near, far float32) Mat4 {
	m := Mat4Identity()
	m[0][0] = 2 / (right - left)
	m[1][1] = 2 / (top - bottom)
	m[2][2] = -2 / (far - near)
	m[3][0] = -(right + left) / (right - left)
	m[3][1] = -(top + bottom) / (top - bottom)
	m[3][2] = -(far + near) / (far - near)
	return m
}

func Mat4LookAt(eye, target, up Vec3) Mat4 {
	zAxis := eye.Sub(target).Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis)

	return Mat4{
		{xAxis.X, yAxis.X, zAxis.X, 0},
		{xAxis.Y, yAxis.Y, zAxis.Y, 0},
		{xAxis.Z, yAxis.Z, zAxis.Z, 0},
		{-xAxis.Dot(eye), -yAxis.Dot(eye), -zAxis.Dot(eye), 1},
	}
}

// Inverse returns the full 4x4 inverse, or the identity for a singular matrix.
func (m Mat4) Inverse() Mat4 {
	a := [16]float32{
		m[0][0], m[0][1], m[0][2], m[0][3],
		m[1][0], m[1][1], m[1][2], m[1][3],
		m[2][0], m[2][1], m[2][2], m[2][3],
		m[3][0], m[3][1], m[3][2], m[3][3],
	}

	s0 := a[0]*a[5] - a[4]*a[1]
	s1 := a[0]*a[6] - a[4]*a[2]
	s2 := a[0]*a[7] - a[4]*a[3]
	s3 := a[1]*a[6] - a[5]*a[2]
	s4 := a[1]*a[7] - a[5]*a[3]
	s5 := a[2]*a[7] - a[6]*a[3]

	c5 := a[10]*a[15] - a[14]*a[11]
	c4 := a[9]*a[15] - a[13]*a[11]
	c3 := a[9]*a[14] - a[13]*a[10]
	c2 := a[8]*a[15] - a[12]*a[11]
	c1 := a[8]*a[14] - a[12]*a[10]
	c0 := a[8]*a[13] - a[12]*a[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Mat4Identity()
	}
	inv := 1 / det

	return Mat4{
		{
			(a[5]*c5 - a[6]*c4 + a[7]*c3) * inv,
			(-a[1]*c5 + a[2]*c4 - a[3]*c3) * inv,
			(a[13]*s5 - a[14]*s4 + a[15]*s3) * inv,
			(-a[9]*s5 + a[10]*s4 - a[11]*s3) * inv,
		},
		{
			(-a[4]*c5 + a[6]*c2 - a[7]*c1) * inv,
			(a[0]*c5 - a[2]*c2 + a[3]*c1) * inv,
			(-a[12]*s5 + a[14]*s2 - a[15]*s1) * inv,
			(a[8]*s5 - a[10]*s2 + a[11]*s1) * inv,
		},
		{
			(a[4]*c4 - a[5]*c2 + a[7]*c0) * inv,
			(-a[0]*c4 + a[1]*c2 - a[3]*c0) * inv,
			(a[12]*s4 - a[13]*s2 + a[15]*s0) * inv,
			(-a[8]*s4 + a[9]*s2 - a[11]*s0) * inv,
		},
		{
			(-a[4]*c3 + a[5]*c1 - a[6]*c0) * inv,
			(a[0]*c3 - a[1]*c1 + a[2]*c0) * inv,
			(-a[12]*s3 + a[13]*s1 - a[14]*s0) * inv,
			(a[8]*s3 - a[9]*s1 + a[10]*s0) * inv,
		},
	}
}

// Decompose splits an affine matrix without shear into translation,
// rotation and scale, the inverse of Mat4Compose.
func (m Mat4) Decompose() (Vec3, Quaternion, Vec3) {
	translation := m.Translation()
	rows := [3]Vec3{
		{m[0][0], m[0][1], m[0][2]},
		{m[1][0], m[1][1], m[1][2]},
		{m[2][0], m[2][1], m[2][2]},
	}
	scale := Vec3{rows[0].Length(), rows[1].Length(), rows[2].Length()}
	if rows[0].Cross(rows[1]).Dot(rows[2]) < 0 {
		scale.X = -scale.X
	}

	var r [3][3]float32
	for i, s := range [3]float32{scale.X, scale.Y, scale.Z} {
		if s == 0 {
			return translation, QuaternionIdentity(), scale
		}
		r[i] = [3]float32{rows[i].X / s, rows[i].Y / s, rows[i].Z / s}
	}
	return translation, quaternionFromRotation(r), scale
}

func quaternionFromRotation(r [3][3]float32) Quaternion {
	var q Quaternion
	trace := r[0][0] + r[1][1] + r[2][2]
	switch {
	case trace > 0:
		s := float32(math.Sqrt(float64(trace+1))) * 2
		q = Quaternion{
			W: s / 4,
			X: (r[1][2] - r[2][1]) / s,
			Y: (r[2][0] - r[0][2]) / s,
			Z: (r[0][1] - r[1][0]) / s,
		}
	case r[0][0] > r[1][1] && r[0][0] > r[2][2]:
		s := float32(math.Sqrt(float64(1+r[0][0]-r[1][1]-r[2][2]))) * 2
		q = Quaternion{
			W: (r[1][2] - r[2][1]) / s,
			X: s / 4,
			Y: (r[0][1] + r[1][0]) / s,
			Z: (r[0][2] + r[2][0]) / s,
		}
	case r[1][1] > r[2][2]:
		s := float32(math.Sqrt(float64(1+r[1][1]-r[0][0]-r[2][2]))) * 2
		q = Quaternion{
			W: (r[2][0] - r[0][2]) / s,
			X: (r[0][1] + r[1][0]) / s,
			Y: s / 4,
			Z: (r[1][2] + r[2][1]) / s,
		}
	default:
		s := float32(math.Sqrt(float64(1+r[2][2]-r[0][0]-r[1][1]))) * 2
		q = Quaternion{
			W: (r[0][1] - r[1][0]) / s,
			X: (r[0][2] + r[2][0]) / s,
			Y: (r[1][2] + r[2][1]) / s,
			Z: s / 4,
		}
	}
	return q.Normalize()
}
