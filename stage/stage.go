// Package stage assembles the showroom: room, smoke, lights, camera and
// the loaded props and runway models.
package stage

import (
	"fmt"
	"log/slog"
	stdmath "math"

	"fashion-show/assets"
	"fashion-show/config"
	"fashion-show/core"
	"fashion-show/internal/logging"
	"fashion-show/math"
	"fashion-show/scene"
	"fashion-show/show"
)

// Asset keys of the static props. Runway models use their own keys.
const (
	StageKey          = "stage"
	audienceKeyPrefix = "audience/"
)

// AudienceKey names the i-th audience instance in a load batch.
func AudienceKey(i int) string { return fmt.Sprintf("%s%d", audienceKeyPrefix, i) }

// Textures are the surfaces the room, smoke and audience use.
type Textures struct {
	Wall, Floor, Ceiling *scene.Texture
	Smoke                *scene.Texture
	Audience             *scene.Texture
}

// All returns every non-nil texture, for GPU upload.
func (t Textures) All() []*scene.Texture {
	var out []*scene.Texture
	for _, tex := range []*scene.Texture{t.Wall, t.Floor, t.Ceiling, t.Smoke, t.Audience} {
		if tex != nil {
			out = append(out, tex)
		}
	}
	return out
}

// LoadTextures reads the surface textures. A texture that fails to load
// is replaced by a flat grey one and logged.
func LoadTextures(cfg *config.Config, log *slog.Logger) Textures {
	if log == nil {
		log = logging.NewNop()
	}
	load := func(rel string) *scene.Texture {
		if rel == "" {
			return nil
		}
		tex, err := scene.LoadTexture(cfg.AssetPath(rel))
		if err != nil {
			log.Warn("texture unavailable, using flat colour", "path", rel, "error", err)
			return scene.NewSolidTexture(rel, 128, 128, 128, 255)
		}
		return tex
	}
	return Textures{
		Wall:     load(cfg.Room.Wall),
		Floor:    load(cfg.Room.Floor),
		Ceiling:  load(cfg.Room.Ceiling),
		Smoke:    load(cfg.Smoke.Texture),
		Audience: load(cfg.Audience.Texture),
	}
}

// Requests lists every model to load: the stage, each audience instance
// and the hidden runway models.
func Requests(cfg *config.Config) []assets.Request {
	reqs := []assets.Request{{
		Key:  StageKey,
		Path: cfg.AssetPath(cfg.Stage.Path),
		Placement: assets.Placement{
			Position:      cfg.Stage.Position.Vec(),
			Scale:         cfg.Stage.Scale,
			Yaw:           radians(cfg.Stage.Yaw),
			CastShadow:    true,
			ReceiveShadow: true,
		},
	}}
	for i, inst := range cfg.Audience.Instances {
		reqs = append(reqs, assets.Request{
			Key:  AudienceKey(i),
			Path: cfg.AssetPath(cfg.Audience.Path),
			Placement: assets.Placement{
				Position:      inst.Position.Vec(),
				Scale:         cfg.Audience.Scale,
				Yaw:           radians(inst.Yaw),
				CastShadow:    true,
				ReceiveShadow: true,
			},
		})
	}
	for _, m := range cfg.Models {
		reqs = append(reqs, assets.Request{
			Key:  m.Key,
			Path: cfg.AssetPath(m.Path),
			Placement: assets.Placement{
				Position:      m.Position.Vec(),
				Scale:         m.Scale,
				Yaw:           radians(m.Yaw),
				Hidden:        true,
				CastShadow:    true,
				ReceiveShadow: true,
			},
		})
	}
	return reqs
}

// Show is the assembled scene plus the runway roster.
type Show struct {
	Scene    *scene.Scene
	Orbit    *scene.OrbitCamera
	Roster   show.Roster
	Textures []*scene.Texture
}

// Assemble builds the scene from the configuration and a complete set of
// loaded models as returned by assets.Loader.LoadAll.
func Assemble(cfg *config.Config, models map[string]*assets.Model, tex Textures, aspect float32) (*Show, error) {
	s := scene.NewScene()
	out := &Show{Scene: s, Roster: show.Roster{}, Textures: tex.All()}

	s.AddNode(BuildRoom(cfg.Room, tex))
	for _, field := range BuildSmoke(cfg.Smoke, tex.Smoke) {
		s.AddSmoke(field)
	}
	ambient, lights := BuildLights(cfg.Lighting)
	s.Ambient = ambient
	for _, l := range lights {
		s.AddLight(l)
	}

	out.Orbit = NewCamera(cfg.Camera, aspect)
	s.SetCamera(out.Orbit.Camera)

	take := func(key string) (*assets.Model, error) {
		m, ok := models[key]
		if !ok || m == nil {
			return nil, fmt.Errorf("%w: %q", show.ErrMissingEntry, key)
		}
		out.Textures = append(out.Textures, m.Textures...)
		return m, nil
	}

	stageModel, err := take(StageKey)
	if err != nil {
		return nil, err
	}
	s.AddNode(stageModel.Root)

	audienceMat := scene.NewStandardMaterial("audience", core.ColorWhite, tex.Audience,
		cfg.Audience.Metalness, cfg.Audience.Roughness)
	for i := range cfg.Audience.Instances {
		m, err := take(AudienceKey(i))
		if err != nil {
			return nil, err
		}
		Rematerial(m.Root, audienceMat)
		s.AddNode(m.Root)
	}

	for _, mc := range cfg.Models {
		m, err := take(mc.Key)
		if err != nil {
			return nil, err
		}
		s.AddNode(m.Root)
		out.Roster[mc.Key] = show.NewEntry(mc.Key, m.Root, m.Clips)
	}
	return out, nil
}

// BuildRoom creates the inward-facing room box. Its four sides use the
// wall texture, the top the ceiling and the bottom the floor.
func BuildRoom(cfg config.RoomConfig, tex Textures) *scene.Node {
	room := scene.NewNode("room")
	room.SetPosition(cfg.Center.Vec())

	wall := scene.NewStandardMaterial("wall", core.ColorWhite, tex.Wall, 0, 1)
	faces := scene.CreateInwardBox(cfg.Size)
	for i, mesh := range faces {
		switch i {
		case scene.FacePosY:
			mesh.Material = scene.NewStandardMaterial("ceiling", core.ColorWhite, tex.Ceiling, 0, 1)
		case scene.FaceNegY:
			mesh.Material = scene.NewStandardMaterial("floor", core.ColorWhite, tex.Floor, 0, 1)
		default:
			mesh.Material = wall
		}
		face := scene.NewNode(mesh.Name)
		face.Mesh = mesh
		room.AddChild(face)
	}
	room.SetShadows(false, true)
	return room
}

// BuildSmoke creates one smoke field per configured anchor. Seeds are
// fixed so a show looks the same on every run.
func BuildSmoke(cfg config.SmokeConfig, tex *scene.Texture) []*scene.SmokeField {
	fields := make([]*scene.SmokeField, 0, len(cfg.Fields))
	for i, anchor := range cfg.Fields {
		f := scene.NewSmokeField(cfg.Count, anchor[0], anchor[1], cfg.Width, cfg.Depth, int64(i+1))
		f.Size = cfg.Size
		f.Opacity = cfg.Opacity
		f.Texture = tex
		fields = append(fields, f)
	}
	return fields
}

// BuildLights returns the ambient term and the directional and spot lights.
func BuildLights(cfg config.LightingConfig) (core.Color, []*scene.Light) {
	ambient := scale(core.ColorHex(cfg.Ambient.Color), cfg.Ambient.Intensity)

	d := cfg.Directional
	sun := &scene.Light{
		Type:       scene.LightTypeDirectional,
		Position:   d.Position.Vec(),
		Target:     math.Vec3Zero,
		Color:      core.ColorHex(d.Color),
		Intensity:  d.Intensity,
		CastShadow: true,
		Shadow: scene.ShadowSettings{
			MapSize: d.ShadowMapSize,
			Extent:  d.ShadowExtent,
			Near:    d.ShadowNear,
			Far:     d.ShadowFar,
		},
	}

	sp := cfg.Spot
	spot := &scene.Light{
		Type:      scene.LightTypeSpot,
		Position:  sp.Position.Vec(),
		Target:    sp.Target.Vec(),
		Color:     core.ColorHex(sp.Color),
		Intensity: sp.Intensity,
		SpotAngle: sp.Angle,
	}
	return ambient, []*scene.Light{sun, spot}
}

// NewCamera places the perspective camera and wraps it in orbit controls.
func NewCamera(cfg config.CameraConfig, aspect float32) *scene.OrbitCamera {
	cam := scene.NewCamera(radians(cfg.FOV), aspect, cfg.Near, cfg.Far)
	cam.Position = cfg.Position.Vec()
	cam.LookAt(cfg.Target.Vec())
	return scene.NewOrbitCamera(cam, cfg.Damping)
}

// Rematerial gives every mesh under root the same material.
func Rematerial(root *scene.Node, mat *scene.Material) {
	root.Traverse(func(n *scene.Node) {
		if n.Mesh != nil {
			n.Mesh.Material = mat
		}
	})
}

func radians(deg float32) float32 { return deg * stdmath.Pi / 180 }

func scale(c core.Color, k float32) core.Color {
	return core.Color{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A}
}
