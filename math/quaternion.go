package math

import "math"

// Quaternion is stored x, y, z, w, matching glTF rotation order.
type Quaternion struct {
	X, Y, Z, W float32
}

func QuaternionIdentity() Quaternion {
	return Quaternion{W: 1}
}

func QuaternionFromAxisAngle(axis Vec3, angle float32) Quaternion {
	half := float64(angle) / 2
	s := float32(math.Sin(half))
	axis = axis.Normalize()
	return Quaternion{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(half)),
	}
}

// Mul composes rotations: the result applies other first, then q.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

func (q Quaternion) Dot(other Quaternion) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

func (q Quaternion) Normalize() Quaternion {
	length := float32(math.Sqrt(float64(q.Dot(q))))
	if length == 0 {
		return q
	}
	inv := 1 / length
	return Quaternion{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

func (q Quaternion) RotateVector(v Vec3) Vec3 {
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(u.Cross(t))
}

func (q Quaternion) ToMat4() Mat4 {
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z

	return Mat4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

// Nlerp interpolates componentwise along the shortest arc and renormalizes.
func (q Quaternion) Nlerp(other Quaternion, t float32) Quaternion {
	if q.Dot(other) < 0 {
		other = Quaternion{-other.X, -other.Y, -other.Z, -other.W}
	}
	return Quaternion{
		X: q.X + (other.X-q.X)*t,
		Y: q.Y + (other.Y-q.Y)*t,
		Z: q.Z + (other.Z-q.Z)*t,
		W: q.W + (other.W-q.W)*t,
	}.Normalize()
}

func (q Quaternion) Slerp(other Quaternion, t float32) Quaternion {
	dot := q.Dot(other)
	if dot < 0 {
		dot = -dot
		other = Quaternion{-other.X, -other.Y, -other.Z, -other.W}
	}
	if dot > 0.9995 {
		return q.Nlerp(other, t)
	}

	theta0 := math.Acos(float64(dot))
	theta := theta0 * float64(t)
	sinTheta0 := math.Sin(theta0)

	s1 := float32(math.Sin(theta) / sinTheta0)
	s0 := float32(math.Cos(theta)) - dot*s1

	return Quaternion{
		X: q.X*s0 + other.X*s1,
		Y: q.Y*s0 + other.Y*s1,
		Z: q.Z*s0 + other.Z*s1,
		W: q.W*s0 + other.W*s1,
	}.Normalize()
}
