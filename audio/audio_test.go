package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOutput struct {
	streams []beep.Streamer
}

func (o *recordingOutput) Add(s beep.Streamer) { o.streams = append(o.streams, s) }

var testFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

func constant(n int, v float64) *beep.Buffer {
	buf := beep.NewBuffer(testFormat)
	buf.Append(beep.Take(n, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})))
	return buf
}

func TestCueScalesVolume(t *testing.T) {
	out := &recordingOutput{}
	cue := NewCue(out, constant(16, 0.8), 0.5)

	cue.Play()
	require.Len(t, out.streams, 1)

	samples := make([][2]float64, 16)
	n, ok := out.streams[0].Stream(samples)
	require.True(t, ok)
	require.Equal(t, 16, n)
	// 16-bit buffer precision
	assert.InDelta(t, 0.4, samples[0][0], 1e-4)
	assert.InDelta(t, 0.4, samples[15][1], 1e-4)
}

func TestCuePlaysFromStartEachTime(t *testing.T) {
	out := &recordingOutput{}
	cue := NewCue(out, constant(8, 1), 1)

	cue.Play()
	drain := make([][2]float64, 8)
	out.streams[0].Stream(drain)
	cue.Play()

	n, _ := out.streams[1].Stream(make([][2]float64, 8))
	assert.Equal(t, 8, n, "a second play is not affected by the first")
}

func TestZeroVolumeIsSilent(t *testing.T) {
	out := &recordingOutput{}
	NewCue(out, constant(4, 1), 0).Play()

	samples := make([][2]float64, 4)
	out.streams[0].Stream(samples)
	assert.Equal(t, [2]float64{0, 0}, samples[0])
}

func TestLoadWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applause.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.Encode(f, beep.Silence(100), testFormat))
	require.NoError(t, f.Close())

	buf, err := Load(path, testFormat.SampleRate)
	require.NoError(t, err)
	assert.Equal(t, 100, buf.Len())
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applause.ogg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := Load(path, testFormat.SampleRate)
	assert.ErrorContains(t, err, "unsupported format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.mp3"), testFormat.SampleRate)
	assert.Error(t, err)
}

func TestNopCue(t *testing.T) {
	assert.NotPanics(t, Nop{}.Play)
}
