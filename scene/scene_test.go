package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reMath "fashion-show/math"
)

func TestSmokeFieldStaysInsideItsBox(t *testing.T) {
	f := NewSmokeField(500, 30, 20, 100, 100, 1)
	require.Equal(t, 500, f.Count())

	for step := 0; step < 2000; step++ {
		f.Update(1.0 / 60.0)
	}
	for _, p := range f.Particles {
		pos := p.Position
		assert.GreaterOrEqual(t, pos.X, float32(30))
		assert.LessOrEqual(t, pos.X, float32(130))
		assert.GreaterOrEqual(t, pos.Z, float32(20))
		assert.LessOrEqual(t, pos.Z, float32(120))
		assert.GreaterOrEqual(t, pos.Y, f.ResetMin)
		assert.LessOrEqual(t, pos.Y, f.Ceiling)
	}
}

func TestSmokeFieldRisesAndResets(t *testing.T) {
	f := NewSmokeField(1, 0, 0, 1, 1, 7)
	f.Particles[0].Position.Y = 10.5
	f.MaxRise = 1

	// Already above the ceiling, so any rise resets it.
	f.Update(1)
	y := f.Particles[0].Position.Y
	assert.GreaterOrEqual(t, y, f.ResetMin)
	assert.LessOrEqual(t, y, f.ResetMax)

	f.Update(0)
	assert.Equal(t, y, f.Particles[0].Position.Y, "zero dt must not move particles")
}

func TestOrbitCameraDampingConverges(t *testing.T) {
	cam := NewCamera(1.3, 16.0/9.0, 0.1, 1000)
	cam.Position = reMath.NewVec3(0, 50, 100)
	orbit := NewOrbitCamera(cam, 0.25)

	startYaw := orbit.Yaw
	orbit.Orbit(1, 0)
	orbit.Update()
	assert.InDelta(t, startYaw+0.25, orbit.Yaw, 1e-5, "first step applies one damping factor")

	for i := 0; i < 200; i++ {
		orbit.Update()
	}
	assert.InDelta(t, startYaw+1, orbit.Yaw, 1e-3)
	assert.InDelta(t, orbit.Distance, cam.Position.Sub(cam.Target).Length(), 1e-3)
}

func TestOrbitCameraClampsPitchAndDistance(t *testing.T) {
	cam := NewCamera(1.3, 1, 0.1, 1000)
	cam.Position = reMath.NewVec3(0, 0, 10)
	orbit := NewOrbitCamera(cam, 1)

	orbit.Orbit(0, 10)
	orbit.Zoom(0.0001)
	orbit.Update()

	assert.InDelta(t, 1.5, orbit.Pitch, 1e-6)
	assert.Equal(t, orbit.MinDistance, orbit.Distance)
}

func TestInwardBoxNormalsFaceCentre(t *testing.T) {
	for i, face := range CreateInwardBox(400) {
		require.Len(t, face.Vertices, 4)
		v := face.Vertices[0]
		// Normal points from the face towards the origin.
		assert.Less(t, v.Normal.Dot(v.Position), float32(0), "face %d", i)
	}
}

func TestSkinAtBindPoseIsIdentity(t *testing.T) {
	meshNode := NewNode("mesh")
	joint := NewNode("joint")
	joint.SetPosition(reMath.NewVec3(0, 2, 0))
	meshNode.AddChild(joint)

	skin := NewSkin([]*Node{joint}, []reMath.Mat4{joint.GetWorldMatrix().Inverse()})
	skin.Update(meshNode)

	identity := reMath.Mat4Identity()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, identity[i][j], skin.Matrices[0][i][j], 1e-5)
		}
	}
}
