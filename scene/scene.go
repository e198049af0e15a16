package scene

import (
	"fashion-show/core"
	"fashion-show/math"
)

// Scene manages a collection of nodes and the active camera
type Scene struct {
	Root     *Node
	Camera   *Camera
	Lights   []*Light
	Ambient  core.Color
	SkyColor core.Color
	Smoke    []*SmokeField
}

// Light types
const (
	LightTypeDirectional = iota
	LightTypePoint
	LightTypeSpot
)

// Light represents a light source. Directional and spot lights shine from
// Position towards Target.
type Light struct {
	Type      int
	Position  math.Vec3
	Target    math.Vec3
	Color     core.Color
	Intensity float32
	Range     float32
	SpotAngle float32 // degrees, half-angle of the cone

	CastShadow bool
	Shadow     ShadowSettings
}

// ShadowSettings describes the orthographic shadow camera of a directional light.
type ShadowSettings struct {
	MapSize int
	Extent  float32 // half-size of the orthographic frustum
	Near    float32
	Far     float32
}

// Direction returns the normalized direction the light travels in.
func (l *Light) Direction() math.Vec3 {
	return l.Target.Sub(l.Position).Normalize()
}

func NewScene() *Scene {
	return &Scene{
		Root:     NewNode("Root"),
		Ambient:  core.Color{R: 0.2, G: 0.2, B: 0.2, A: 1.0},
		SkyColor: core.ColorBlack,
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

func (s *Scene) AddSmoke(field *SmokeField) {
	s.Smoke = append(s.Smoke, field)
}

// ShadowLight returns the first directional light that casts shadows.
func (s *Scene) ShadowLight() *Light {
	for _, l := range s.Lights {
		if l != nil && l.Type == LightTypeDirectional && l.CastShadow {
			return l
		}
	}
	return nil
}

// Update advances per-frame scene state that is not driven by animation mixers.
func (s *Scene) Update(dt float32) {
	for _, field := range s.Smoke {
		field.Update(dt)
	}
	s.Root.TraverseVisible(func(node *Node) {
		if node.Skin != nil {
			node.Skin.Update(node)
		}
	})
}

// GetVisibleNodes returns mesh nodes whose whole ancestor chain is visible.
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node
	s.Root.TraverseVisible(func(node *Node) {
		if node.Mesh != nil {
			visible = append(visible, node)
		}
	})
	return visible
}
