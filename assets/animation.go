package assets

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"fashion-show/animation"
	"fashion-show/math"
)

// animations converts every glTF animation into a clip. Channels that
// target morph weights or no node are skipped.
func (d *decoder) animations() ([]*animation.Clip, error) {
	clips := make([]*animation.Clip, 0, len(d.doc.Animations))
	for ai, anim := range d.doc.Animations {
		name := anim.Name
		if name == "" {
			name = fmt.Sprintf("animation_%d", ai)
		}

		var tracks []*animation.Track
		for ci, ch := range anim.Channels {
			if ch.Target.Node == nil || ch.Target.Path == gltf.TRSWeights {
				continue
			}
			if *ch.Target.Node >= len(d.doc.Nodes) {
				return nil, fmt.Errorf("animation %q channel %d: node %d out of range", name, ci, *ch.Target.Node)
			}
			if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
				return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", name, ci, ch.Sampler)
			}
			track, err := d.track(anim.Samplers[ch.Sampler], ch.Target)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: %w", name, ci, err)
			}
			tracks = append(tracks, track)
		}
		clips = append(clips, animation.NewClip(name, tracks))
	}
	return clips, nil
}

func (d *decoder) track(sampler *gltf.AnimationSampler, target gltf.AnimationChannelTarget) (*animation.Track, error) {
	track := &animation.Track{
		Node:          nodeName(d.doc, *target.Node),
		Interpolation: animation.InterpolationLinear,
	}
	if sampler.Interpolation == gltf.InterpolationStep {
		track.Interpolation = animation.InterpolationStep
	}

	raw, err := modeler.ReadAccessor(d.doc, d.doc.Accessors[sampler.Input], nil)
	if err != nil {
		return nil, fmt.Errorf("timestamps: %w", err)
	}
	times, ok := raw.([]float32)
	if !ok {
		return nil, fmt.Errorf("timestamps: unexpected type %T", raw)
	}
	track.Times = times

	raw, err = modeler.ReadAccessor(d.doc, d.doc.Accessors[sampler.Output], nil)
	if err != nil {
		return nil, fmt.Errorf("values: %w", err)
	}

	switch target.Path {
	case gltf.TRSTranslation, gltf.TRSScale:
		track.Path = animation.PathTranslation
		if target.Path == gltf.TRSScale {
			track.Path = animation.PathScale
		}
		values, ok := raw.([][3]float32)
		if !ok {
			return nil, fmt.Errorf("%s values: unexpected type %T", track.Path, raw)
		}
		values = splineValues(values, len(times), sampler.Interpolation)
		track.Vectors = make([]math.Vec3, len(values))
		for i, v := range values {
			track.Vectors[i] = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
		}
	case gltf.TRSRotation:
		track.Path = animation.PathRotation
		values, err := rotationValues(raw)
		if err != nil {
			return nil, err
		}
		values = splineValues(values, len(times), sampler.Interpolation)
		track.Rotations = make([]math.Quaternion, len(values))
		for i, v := range values {
			track.Rotations[i] = math.Quaternion{X: v[0], Y: v[1], Z: v[2], W: v[3]}.Normalize()
		}
	default:
		return nil, fmt.Errorf("unsupported target path %v", target.Path)
	}
	return track, nil
}

// splineValues drops the in and out tangents of cubic spline output,
// leaving one value per keyframe that is then interpolated linearly.
func splineValues[T any](values []T, keys int, interp gltf.Interpolation) []T {
	if interp != gltf.InterpolationCubicSpline || len(values) < keys*3 {
		return values
	}
	out := make([]T, keys)
	for i := range out {
		out[i] = values[i*3+1]
	}
	return out
}

// rotationValues accepts float and normalized integer quaternions.
func rotationValues(raw any) ([][4]float32, error) {
	switch v := raw.(type) {
	case [][4]float32:
		return v, nil
	case [][4]int8:
		return normalizedQuats(v, func(c int8) float32 { return max(float32(c)/127, -1) }), nil
	case [][4]uint8:
		return normalizedQuats(v, func(c uint8) float32 { return float32(c) / 255 }), nil
	case [][4]int16:
		return normalizedQuats(v, func(c int16) float32 { return max(float32(c)/32767, -1) }), nil
	case [][4]uint16:
		return normalizedQuats(v, func(c uint16) float32 { return float32(c) / 65535 }), nil
	}
	return nil, fmt.Errorf("rotation values: unexpected type %T", raw)
}

func normalizedQuats[T any](in [][4]T, conv func(T) float32) [][4]float32 {
	out := make([][4]float32, len(in))
	for i, q := range in {
		for k := 0; k < 4; k++ {
			out[i][k] = conv(q[k])
		}
	}
	return out
}
