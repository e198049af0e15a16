package config

import (
	"slices"
	"time"

	"fashion-show/show"
)

// Default returns the stock show.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:   1280,
			Height:  720,
			Title:   "Virtual Fashion Show",
			VSync:   true,
			Samples: 4,
		},
		Camera: CameraConfig{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: Vec3{0, 50, 100},
			Damping:  0.25,
		},
		Assets: AssetsConfig{
			Root:    ".",
			Retries: 2,
			Backoff: 250 * time.Millisecond,
		},
		Room: RoomConfig{
			Size:    400,
			Center:  Vec3{0, 190, 0},
			Wall:    "textures/wallRoom.jpg",
			Floor:   "textures/roomFloor.jpg",
			Ceiling: "textures/roomCeiling.jpg",
		},
		Smoke: SmokeConfig{
			Texture: "textures/smoke.png",
			Count:   1000,
			Fields:  [][2]float32{{30, 20}, {-130, 20}},
			Width:   100,
			Depth:   100,
			Size:    10,
			Opacity: 0.2,
		},
		Lighting: LightingConfig{
			Ambient: AmbientConfig{Color: 0xffffff, Intensity: 0.5},
			Directional: DirectionalConfig{
				Color:         0xffffff,
				Intensity:     1.5,
				Position:      Vec3{0, 200, 200},
				ShadowMapSize: 1024,
				ShadowExtent:  100,
				ShadowNear:    1,
				ShadowFar:     500,
			},
			Spot: SpotConfig{
				Color:     0xffee88,
				Intensity: 3,
				Angle:     45,
				Position:  Vec3{0, 100, 100},
			},
		},
		Stage: PropConfig{
			Path:     "3Dmodels/stage1.glb",
			Position: Vec3{0, -10, 0},
			Scale:    25,
			Yaw:      -90,
		},
		Audience: AudienceConfig{
			Path:      "3Dmodels/audience.glb",
			Texture:   "textures/audience.jpg",
			Scale:     7,
			Roughness: 0.8,
			Metalness: 0.2,
			Instances: []InstanceConfig{
				{Position: Vec3{-55, -9, 110}, Yaw: 90},
				{Position: Vec3{55, -9, 30}, Yaw: -90},
			},
		},
		Models: []ModelConfig{
			{Key: "model1", Path: "3Dmodels/model1.glb", Position: Vec3{40, 10, -50}, Scale: 28, Yaw: -90},
			{Key: "model2", Path: "3Dmodels/model2.glb", Position: Vec3{50, 10, -50}, Scale: 30, Yaw: -90},
			{Key: "model3", Path: "3Dmodels/model3.glb", Position: Vec3{55, 10, -50}, Scale: 15, Yaw: -90},
			{Key: "model4", Path: "3Dmodels/model4.glb", Position: Vec3{40, 10, -50}, Scale: 32, Yaw: -90},
		},
		Permutations: DefaultPermutations(),
		Audio: AudioConfig{
			Path:       "audio/applause-sound-effect-240470.mp3",
			Volume:     0.5,
			SampleRate: 44100,
		},
		Overlap: "discard",
	}
}

// DefaultPermutations returns a copy of show.DefaultPermutations that the
// caller may modify.
func DefaultPermutations() map[string][]int {
	out := make(map[string][]int, len(show.DefaultPermutations))
	for symbol, perm := range show.DefaultPermutations {
		out[symbol] = slices.Clone(perm)
	}
	return out
}
