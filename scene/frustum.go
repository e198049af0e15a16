package scene

import "fashion-show/math"

// Plane is the half-space Normal·p + D >= 0.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means inside.
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts the planes of a view-projection matrix
// (Gribb/Hartmann). Points are row vectors, so clip-space component i is
// the dot product with column i of vp.
func FrustumFromVP(vp math.Mat4) Frustum {
	col := func(i int) math.Vec4 {
		return math.Vec4{X: vp[0][i], Y: vp[1][i], Z: vp[2][i], W: vp[3][i]}
	}
	c0, c1, c2, c3 := col(0), col(1), col(2), col(3)

	plane := func(a math.Vec4, sign float32) Plane {
		return normalizePlane(c3.X+sign*a.X, c3.Y+sign*a.Y, c3.Z+sign*a.Z, c3.W+sign*a.W)
	}
	return Frustum{Planes: [6]Plane{
		plane(c0, 1), plane(c0, -1),
		plane(c1, 1), plane(c1, -1),
		plane(c2, 1), plane(c2, -1),
	}}
}

func normalizePlane(a, b, c, d float32) Plane {
	l := math.Vec3{X: a, Y: b, Z: c}.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: math.Vec3{X: a / l, Y: b / l, Z: c / l}, D: d / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// IntersectsFrustum returns false if the box is completely outside f.
// For each plane only the corner furthest along the normal is tested.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		corner := box.Max
		if p.Normal.X < 0 {
			corner.X = box.Min.X
		}
		if p.Normal.Y < 0 {
			corner.Y = box.Min.Y
		}
		if p.Normal.Z < 0 {
			corner.Z = box.Min.Z
		}
		if p.DistanceTo(corner) < 0 {
			return false
		}
	}
	return true
}

// Transform returns the world-space box enclosing the eight transformed corners.
func (box AABB) Transform(m math.Mat4) AABB {
	mn, mx := box.Min, box.Max
	out := AABB{Min: m.MulPoint(mn), Max: m.MulPoint(mn)}
	for i := 1; i < 8; i++ {
		c := mn
		if i&1 != 0 {
			c.X = mx.X
		}
		if i&2 != 0 {
			c.Y = mx.Y
		}
		if i&4 != 0 {
			c.Z = mx.Z
		}
		out = out.extend(m.MulPoint(c))
	}
	return out
}

func (box AABB) extend(p math.Vec3) AABB {
	box.Min = math.Vec3{X: min(box.Min.X, p.X), Y: min(box.Min.Y, p.Y), Z: min(box.Min.Z, p.Z)}
	box.Max = math.Vec3{X: max(box.Max.X, p.X), Y: max(box.Max.Y, p.Y), Z: max(box.Max.Z, p.Z)}
	return box
}

// Bounds returns the local bounding box of the mesh vertices, computed
// once. Meshes are not edited after loading.
func (m *Mesh) Bounds() AABB {
	if m.bounds == nil {
		var b AABB
		for i, v := range m.Vertices {
			if i == 0 {
				b = AABB{Min: v.Position, Max: v.Position}
				continue
			}
			b = b.extend(v.Position)
		}
		m.bounds = &b
	}
	return *m.bounds
}

// Cull drops rigid draws whose bounds fall outside the frustum of vp.
// Skinned draws are kept because their bind-pose bounds do not follow
// the animation.
func Cull(draws []Draw, vp math.Mat4) []Draw {
	f := FrustumFromVP(vp)
	out := draws[:0]
	for _, d := range draws {
		if d.Joints == nil && !d.Node.Mesh.Bounds().Transform(d.Model).IntersectsFrustum(&f) {
			continue
		}
		out = append(out, d)
	}
	return out
}
