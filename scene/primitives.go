package scene

import (
	"fashion-show/core"
	"fashion-show/math"
)

// Box face order, matching the per-face material slots of a box geometry.
const (
	FacePosX = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// CreateQuad builds a rectangle centred at center spanning ±halfU along u
// and ±halfV along v. The front face and normal point along u × v.
func CreateQuad(name string, center, u, v math.Vec3, halfU, halfV float32) *Mesh {
	normal := u.Cross(v).Normalize()
	du := u.Normalize().Mul(halfU)
	dv := v.Normalize().Mul(halfV)

	corner := func(su, sv float32, uv math.Vec2) core.Vertex {
		return core.Vertex{
			Position: center.Add(du.Mul(su)).Add(dv.Mul(sv)),
			Normal:   normal,
			UV:       uv,
			Color:    core.ColorWhite,
		}
	}
	vertices := []core.Vertex{
		corner(-1, -1, math.Vec2{X: 0, Y: 1}),
		corner(1, -1, math.Vec2{X: 1, Y: 1}),
		corner(1, 1, math.Vec2{X: 1, Y: 0}),
		corner(-1, 1, math.Vec2{X: 0, Y: 0}),
	}
	return CreateMeshFromData(name, vertices, []uint32{0, 1, 2, 2, 3, 0})
}

// CreateInwardBox returns the six faces of a cube of edge size, centred on
// the origin, with normals pointing inside. Faces are indexed by FacePosX..FaceNegZ.
func CreateInwardBox(size float32) [6]*Mesh {
	s := size / 2
	x := math.Vec3Right
	y := math.Vec3Up
	z := math.Vec3Front

	return [6]*Mesh{
		FacePosX: CreateQuad("Room_PX", x.Mul(s), z, y, s, s),
		FaceNegX: CreateQuad("Room_NX", x.Mul(-s), z.Negate(), y, s, s),
		FacePosY: CreateQuad("Room_PY", y.Mul(s), x, z, s, s),
		FaceNegY: CreateQuad("Room_NY", y.Mul(-s), x, z.Negate(), s, s),
		FacePosZ: CreateQuad("Room_PZ", z.Mul(s), x.Negate(), y, s, s),
		FaceNegZ: CreateQuad("Room_NZ", z.Mul(-s), x, y, s, s),
	}
}
