package scene

import (
	gomath "math"

	"fashion-show/math"
)

// ShadowViewProj returns the orthographic view-projection of a
// directional light's shadow camera, looking from Position at Target.
func (l *Light) ShadowViewProj() math.Mat4 {
	up := math.Vec3Up
	if dir := l.Direction(); gomath.Abs(float64(dir.Dot(math.Vec3Up))) > 0.999 {
		up = math.Vec3{Z: 1}
	}
	e := l.Shadow.Extent
	view := math.Mat4LookAt(l.Position, l.Target, up)
	proj := math.Mat4Orthographic(-e, e, -e, e, l.Shadow.Near, l.Shadow.Far)
	return view.Mul(proj)
}

// Draw is one mesh draw with everything the backend needs.
type Draw struct {
	Node  *Node
	Model math.Mat4
	// Joints is nil for rigid meshes.
	Joints []math.Mat4
}

// DrawList collects the visible meshes. With castersOnly set only nodes
// flagged to cast shadows are returned.
func (s *Scene) DrawList(castersOnly bool) []Draw {
	var out []Draw
	for _, n := range s.GetVisibleNodes() {
		if castersOnly && !n.CastShadow {
			continue
		}
		d := Draw{Node: n, Model: n.GetWorldMatrix()}
		if n.Skin != nil && n.Mesh.Skinned {
			d.Joints = n.Skin.Matrices
		}
		out = append(out, d)
	}
	return out
}
