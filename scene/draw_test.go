package scene

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-show/core"
	"fashion-show/math"
)

func TestShadowViewProjCentresTarget(t *testing.T) {
	l := &Light{
		Type:     LightTypeDirectional,
		Position: math.NewVec3(0, 200, 200),
		Target:   math.Vec3Zero,
		Shadow:   ShadowSettings{Extent: 100, Near: 1, Far: 500},
	}
	vp := l.ShadowViewProj()
	p := vp.MulPoint(math.Vec3Zero)
	assert.InDelta(t, 0, p.X, 1e-4)
	assert.InDelta(t, 0, p.Y, 1e-4)
	assert.True(t, p.Z > -1 && p.Z < 1, "target inside depth range, got %v", p.Z)
}

func TestShadowViewProjStraightDown(t *testing.T) {
	l := &Light{Position: math.NewVec3(0, 50, 0), Shadow: ShadowSettings{Extent: 10, Near: 1, Far: 100}}
	p := l.ShadowViewProj().MulPoint(math.Vec3Zero)
	assert.False(t, gomath.IsNaN(float64(p.X)), "degenerate up vector")
}

func TestDrawListFiltersCasters(t *testing.T) {
	s := NewScene()
	vert := []core.Vertex{{}}

	caster := NewNode("caster")
	caster.Mesh = CreateMeshFromData("a", vert, nil)
	caster.CastShadow = true
	s.AddNode(caster)

	receiver := NewNode("receiver")
	receiver.Mesh = CreateMeshFromData("b", vert, nil)
	receiver.ReceiveShadow = true
	s.AddNode(receiver)

	hidden := NewNode("hidden")
	hidden.Mesh = CreateMeshFromData("c", vert, nil)
	hidden.CastShadow = true
	hidden.Visible = false
	s.AddNode(hidden)

	assert.Len(t, s.DrawList(false), 2)
	casters := s.DrawList(true)
	require.Len(t, casters, 1)
	assert.Same(t, caster, casters[0].Node)
	assert.Nil(t, casters[0].Joints)
}

func TestDrawListCarriesJoints(t *testing.T) {
	s := NewScene()
	joint := NewNode("joint")
	body := NewNode("body")
	body.Mesh = CreateMeshFromData("body", []core.Vertex{{}}, nil)
	body.Mesh.Skinned = true
	body.Skin = NewSkin([]*Node{joint}, nil)
	s.AddNode(joint)
	s.AddNode(body)
	s.Update(0)

	draws := s.DrawList(false)
	require.Len(t, draws, 1)
	require.Len(t, draws[0].Joints, 1)
	assert.Equal(t, math.Mat4Identity(), draws[0].Joints[0])
}

func TestFrustumCulling(t *testing.T) {
	cam := NewCamera(1.2, 1, 0.1, 100)
	cam.Position = math.NewVec3(0, 0, 10)
	vp := cam.GetViewProjectionMatrix()
	f := FrustumFromVP(vp)

	unit := AABB{Min: math.Splat(-1), Max: math.Splat(1)}
	assert.True(t, unit.IntersectsFrustum(&f), "box at the target")
	assert.False(t, unit.Transform(math.Mat4Translation(math.NewVec3(0, 0, 20))).IntersectsFrustum(&f), "box behind the camera")
	assert.False(t, unit.Transform(math.Mat4Translation(math.NewVec3(50, 0, 0))).IntersectsFrustum(&f), "box far to the right")
	assert.False(t, unit.Transform(math.Mat4Translation(math.NewVec3(0, 0, -200))).IntersectsFrustum(&f), "box past the far plane")
}

func TestCullKeepsSkinnedDraws(t *testing.T) {
	cam := NewCamera(1.2, 1, 0.1, 100)
	cam.Position = math.NewVec3(0, 0, 10)

	mesh := CreateMeshFromData("m", []core.Vertex{
		{Position: math.Splat(-1)}, {Position: math.Splat(1)},
	}, nil)
	behind := math.Mat4Translation(math.NewVec3(0, 0, 30))
	draws := []Draw{
		{Node: &Node{Mesh: mesh}, Model: math.Mat4Identity()},
		{Node: &Node{Mesh: mesh}, Model: behind},
		{Node: &Node{Mesh: mesh}, Model: behind, Joints: []math.Mat4{math.Mat4Identity()}},
	}
	kept := Cull(draws, cam.GetViewProjectionMatrix())
	require.Len(t, kept, 2)
	assert.Nil(t, kept[0].Joints)
	assert.NotNil(t, kept[1].Joints)
	assert.Equal(t, AABB{Min: math.Splat(-1), Max: math.Splat(1)}, mesh.Bounds())
}
