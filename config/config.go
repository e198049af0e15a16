// Package config reads the show file. Every field has a default equal to
// the stock show, so an empty file is a valid configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"fashion-show/math"
)

// Vec3 is written as a [x, y, z] sequence.
type Vec3 [3]float32

func (v Vec3) Vec() math.Vec3 { return math.Vec3{X: v[0], Y: v[1], Z: v[2]} }

type Config struct {
	Window       WindowConfig     `yaml:"window"`
	Camera       CameraConfig     `yaml:"camera"`
	Assets       AssetsConfig     `yaml:"assets"`
	Room         RoomConfig       `yaml:"room"`
	Smoke        SmokeConfig      `yaml:"smoke"`
	Lighting     LightingConfig   `yaml:"lighting"`
	Stage        PropConfig       `yaml:"stage"`
	Audience     AudienceConfig   `yaml:"audience"`
	Models       []ModelConfig    `yaml:"models"`
	Permutations map[string][]int `yaml:"permutations"`
	Audio        AudioConfig      `yaml:"audio"`
	Overlap      string           `yaml:"overlap"`
}

type WindowConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Title   string `yaml:"title"`
	VSync   bool   `yaml:"vsync"`
	Samples int    `yaml:"samples"`
}

type CameraConfig struct {
	FOV      float32 `yaml:"fov"` // vertical, degrees
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
	Position Vec3    `yaml:"position"`
	Target   Vec3    `yaml:"target"`
	Damping  float32 `yaml:"damping"`
}

type AssetsConfig struct {
	Root    string        `yaml:"root"`
	Retries int           `yaml:"retries"`
	Backoff time.Duration `yaml:"backoff"`
}

type RoomConfig struct {
	Size    float32 `yaml:"size"`
	Center  Vec3    `yaml:"center"`
	Wall    string  `yaml:"wall"`
	Floor   string  `yaml:"floor"`
	Ceiling string  `yaml:"ceiling"`
}

type SmokeConfig struct {
	Texture string       `yaml:"texture"`
	Count   int          `yaml:"count"`
	Fields  [][2]float32 `yaml:"fields"` // min corner (x, z) of each field
	Width   float32      `yaml:"width"`
	Depth   float32      `yaml:"depth"`
	Size    float32      `yaml:"size"`
	Opacity float32      `yaml:"opacity"`
}

type LightingConfig struct {
	Ambient     AmbientConfig     `yaml:"ambient"`
	Directional DirectionalConfig `yaml:"directional"`
	Spot        SpotConfig        `yaml:"spot"`
}

type AmbientConfig struct {
	Color     uint32  `yaml:"color"`
	Intensity float32 `yaml:"intensity"`
}

type DirectionalConfig struct {
	Color         uint32  `yaml:"color"`
	Intensity     float32 `yaml:"intensity"`
	Position      Vec3    `yaml:"position"`
	ShadowMapSize int     `yaml:"shadow_map_size"`
	ShadowExtent  float32 `yaml:"shadow_extent"`
	ShadowNear    float32 `yaml:"shadow_near"`
	ShadowFar     float32 `yaml:"shadow_far"`
}

type SpotConfig struct {
	Color     uint32  `yaml:"color"`
	Intensity float32 `yaml:"intensity"`
	Angle     float32 `yaml:"angle"` // degrees
	Position  Vec3    `yaml:"position"`
	Target    Vec3    `yaml:"target"`
}

// PropConfig places a static model.
type PropConfig struct {
	Path     string  `yaml:"path"`
	Position Vec3    `yaml:"position"`
	Scale    float32 `yaml:"scale"`
	Yaw      float32 `yaml:"yaw"` // degrees
}

type AudienceConfig struct {
	Path      string           `yaml:"path"`
	Texture   string           `yaml:"texture"`
	Scale     float32          `yaml:"scale"`
	Roughness float32          `yaml:"roughness"`
	Metalness float32          `yaml:"metalness"`
	Instances []InstanceConfig `yaml:"instances"`
}

type InstanceConfig struct {
	Position Vec3    `yaml:"position"`
	Yaw      float32 `yaml:"yaw"` // degrees
}

type AudioConfig struct {
	Path       string  `yaml:"path"`
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
	Disabled   bool    `yaml:"disabled"`
}

// Load reads the show file at path on top of Default. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	// Permutations are replaced, never merged with the defaults.
	cfg.Permutations = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if cfg.Permutations == nil {
		cfg.Permutations = DefaultPermutations()
	}
	return cfg, nil
}

// AssetPath resolves rel against the asset root.
func (c *Config) AssetPath(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Assets.Root, rel)
}

// ModelKeys returns the runway model keys in configuration order.
func (c *Config) ModelKeys() []string {
	keys := make([]string, len(c.Models))
	for i, m := range c.Models {
		keys[i] = m.Key
	}
	return keys
}

// keyFromPath derives a model key from its file name.
func keyFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
