package scene

import "fashion-show/core"

// Material describes Phong surface properties for a mesh.
type Material struct {
	Name      string
	Albedo    core.Color // multiplied with AlbedoTexture if set
	Specular  core.Color
	Shininess float32
	Unlit     bool

	// Upload via RenderEngine.UploadTexture before rendering.
	AlbedoTexture *Texture
}

// DefaultMaterial returns a plain white matte material.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "Default",
		Albedo:    core.ColorWhite,
		Specular:  core.Color{R: 0.3, G: 0.3, B: 0.3, A: 1},
		Shininess: 32,
	}
}

// NewStandardMaterial maps metallic-roughness parameters onto Phong:
// smooth surfaces get a tight highlight, metals a bright one.
func NewStandardMaterial(name string, albedo core.Color, tex *Texture, metallic, roughness float32) *Material {
	s := 0.04 + metallic*0.7
	return &Material{
		Name:          name,
		Albedo:        albedo,
		Specular:      core.Color{R: s, G: s, B: s, A: 1},
		Shininess:     (1-roughness)*(1-roughness)*128 + 1,
		AlbedoTexture: tex,
	}
}
