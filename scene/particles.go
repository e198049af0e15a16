package scene

import (
	"math/rand"

	"fashion-show/core"
	"fashion-show/math"
)

// BlendMode controls how particle colours composite with the scene.
type BlendMode int

const (
	BlendAlpha    BlendMode = iota // standard alpha blend
	BlendAdditive                  // additive blend, used for glowing smoke
)

// Particle is a single point of a particle field.
type Particle struct {
	Position math.Vec3
}

// SmokeField is a fixed population of points spread over a box on the
// floor. Every step each point drifts upward by a random amount and is
// dropped back near the ground once it passes Ceiling.
type SmokeField struct {
	Origin  math.Vec3 // min corner of the spawn box on X and Z
	Width   float32   // extent along X
	Depth   float32   // extent along Z
	Ceiling float32   // particles above this height are reset

	// SpawnMin/SpawnMax bound the initial height; ResetMin/ResetMax the
	// height a particle returns to after passing Ceiling.
	SpawnMin, SpawnMax float32
	ResetMin, ResetMax float32

	// MaxRise is the largest upward step per reference frame.
	MaxRise float32

	Size      float32 // billboard edge length in world units
	Color     core.Color
	Opacity   float32
	BlendMode BlendMode
	Texture   *Texture

	Particles []Particle

	rng *rand.Rand
}

// referenceFrame is the frame time the per-step rise is expressed in.
const referenceFrame = float32(1.0 / 60.0)

// NewSmokeField scatters count particles in a width×depth box whose min
// corner on the floor plane is (x, z).
func NewSmokeField(count int, x, z, width, depth float32, seed int64) *SmokeField {
	f := &SmokeField{
		Origin:    math.Vec3{X: x, Z: z},
		Width:     width,
		Depth:     depth,
		Ceiling:   10,
		SpawnMin:  -5,
		SpawnMax:  5,
		ResetMin:  -5,
		ResetMax:  0,
		MaxRise:   0.1,
		Size:      10,
		Color:     core.ColorWhite,
		Opacity:   0.2,
		BlendMode: BlendAdditive,
		Particles: make([]Particle, count),
		rng:       rand.New(rand.NewSource(seed)),
	}
	for i := range f.Particles {
		f.Particles[i].Position = math.Vec3{
			X: x + f.rng.Float32()*width,
			Y: f.SpawnMin + f.rng.Float32()*(f.SpawnMax-f.SpawnMin),
			Z: z + f.rng.Float32()*depth,
		}
	}
	return f
}

// Update advances the simulation by dt seconds.
func (f *SmokeField) Update(dt float32) {
	if dt <= 0 {
		return
	}
	scale := dt / referenceFrame
	for i := range f.Particles {
		p := &f.Particles[i].Position
		p.Y += f.rng.Float32() * f.MaxRise * scale
		if p.Y > f.Ceiling {
			p.Y = f.ResetMin + f.rng.Float32()*(f.ResetMax-f.ResetMin)
		}
	}
}

// Count returns the number of particles.
func (f *SmokeField) Count() int { return len(f.Particles) }
