// Package animation samples keyframed node animation and drives playback
// through per-model mixers.
package animation

import (
	"sort"

	"fashion-show/math"
	"fashion-show/scene"
)

// Path is the node property a track animates.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	}
	return "unknown"
}

// Interpolation selects how values between two keyframes are computed.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
)

// Track animates one property of one node. Translation and scale tracks
// keep their values in Vectors, rotation tracks in Rotations. Times are
// in seconds and strictly increasing.
type Track struct {
	Node          string
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Vectors       []math.Vec3
	Rotations     []math.Quaternion
}

// Len returns the number of usable keyframes.
func (t *Track) Len() int {
	n := len(t.Times)
	if t.Path == PathRotation {
		return min(n, len(t.Rotations))
	}
	return min(n, len(t.Vectors))
}

// Clip is a named set of tracks played together.
type Clip struct {
	Name     string
	Duration float32
	Tracks   []*Track
}

// NewClip builds a clip whose duration is the last keyframe time of its
// longest track.
func NewClip(name string, tracks []*Track) *Clip {
	c := &Clip{Name: name, Tracks: tracks}
	for _, t := range tracks {
		if n := t.Len(); n > 0 && t.Times[n-1] > c.Duration {
			c.Duration = t.Times[n-1]
		}
	}
	return c
}

// Binding resolves track node names to scene nodes.
type Binding map[string]*scene.Node

// Bind looks up every node the clip targets under root. Names that do
// not resolve are left out and their tracks are skipped when sampling.
func Bind(root *scene.Node, clip *Clip) Binding {
	b := make(Binding, len(clip.Tracks))
	for _, t := range clip.Tracks {
		if _, ok := b[t.Node]; ok {
			continue
		}
		if n := root.Find(t.Node); n != nil {
			b[t.Node] = n
		}
	}
	return b
}

// Sample evaluates every track at time t and writes the result into the
// bound nodes.
func (c *Clip) Sample(t float32, bind Binding) {
	for _, track := range c.Tracks {
		node := bind[track.Node]
		if node == nil || track.Len() == 0 {
			continue
		}
		switch track.Path {
		case PathTranslation:
			node.SetPosition(track.vectorAt(t))
		case PathRotation:
			node.SetRotation(track.rotationAt(t))
		case PathScale:
			node.SetScale(track.vectorAt(t))
		}
	}
}

// span returns the keyframe pair around t and the blend factor between
// them. Times outside the track clamp to the first or last key.
func (t *Track) span(at float32) (int, int, float32) {
	n := t.Len()
	if at <= t.Times[0] {
		return 0, 0, 0
	}
	if at >= t.Times[n-1] {
		return n - 1, n - 1, 0
	}
	next := sort.Search(n, func(i int) bool { return t.Times[i] > at })
	prev := next - 1
	if t.Interpolation == InterpolationStep {
		return prev, prev, 0
	}
	dt := t.Times[next] - t.Times[prev]
	if dt <= 0 {
		return next, next, 0
	}
	return prev, next, (at - t.Times[prev]) / dt
}

func (t *Track) vectorAt(at float32) math.Vec3 {
	a, b, f := t.span(at)
	if a == b {
		return t.Vectors[a]
	}
	return t.Vectors[a].Lerp(t.Vectors[b], f)
}

func (t *Track) rotationAt(at float32) math.Quaternion {
	a, b, f := t.span(at)
	if a == b {
		return t.Rotations[a]
	}
	return t.Rotations[a].Slerp(t.Rotations[b], f)
}
