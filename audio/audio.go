// Package audio decodes sound files and plays them as one-shot cues.
package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// resampleQuality is the beep.Resample quality used when a file's rate
// differs from the output rate.
const resampleQuality = 4

// Output is a sink that mixes streamers into the device.
type Output interface {
	Add(s beep.Streamer)
}

// Load decodes an mp3 or wav file fully into memory at the given sample
// rate so it can be replayed without touching the disk.
func Load(path string, rate beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sound %q: %w", path, err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("sound %q: unsupported format", path)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode sound %q: %w", path, err)
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if format.SampleRate != rate {
		s = beep.Resample(resampleQuality, format.SampleRate, rate, stream)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(s)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("decode sound %q: %w", path, err)
	}
	return buf, nil
}

// Cue plays a buffered sound once per Play call. Overlapping plays mix.
type Cue struct {
	out    Output
	buf    *beep.Buffer
	volume float64
}

// NewCue plays buf on out. Volume is linear: 1 is unchanged, 0.5 half
// amplitude, 0 silent.
func NewCue(out Output, buf *beep.Buffer, volume float64) *Cue {
	return &Cue{out: out, buf: buf, volume: volume}
}

func (c *Cue) Play() {
	c.out.Add(&effects.Volume{
		Streamer: c.buf.Streamer(0, c.buf.Len()),
		Base:     2,
		Volume:   gain(c.volume),
		Silent:   c.volume <= 0,
	})
}

// gain converts a linear volume to the base-2 exponent effects.Volume uses.
func gain(volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	return math.Log2(volume)
}

// Nop is a cue that does nothing, used when no audio device is available.
type Nop struct{}

func (Nop) Play() {}
