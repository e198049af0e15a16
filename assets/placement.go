package assets

import (
	"fashion-show/math"
	"fashion-show/scene"
)

// Placement positions a loaded model in the world.
type Placement struct {
	Position math.Vec3
	Scale    float32 // uniform; zero keeps the authored scale
	Yaw      float32 // radians about +Y
	Hidden   bool

	CastShadow    bool
	ReceiveShadow bool
}

// Apply writes the placement into root and the shadow flags into every
// mesh below it.
func (p Placement) Apply(root *scene.Node) {
	root.SetPosition(p.Position)
	if p.Scale != 0 {
		root.SetScale(math.Splat(p.Scale))
	}
	root.SetRotation(math.QuaternionFromAxisAngle(math.Vec3Up, p.Yaw))
	root.Visible = !p.Hidden
	root.SetShadows(p.CastShadow, p.ReceiveShadow)
}
