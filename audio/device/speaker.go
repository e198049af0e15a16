// Package device owns the process-wide speaker.
package device

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Speaker mixes every added streamer into the default output device.
type Speaker struct {
	Rate  beep.SampleRate
	mixer *beep.Mixer
}

// Open initialises the speaker with a 100ms buffer and starts the mixer.
// Only one Speaker may be open at a time.
func Open(sampleRate int) (*Speaker, error) {
	rate := beep.SampleRate(sampleRate)
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	s := &Speaker{Rate: rate, mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

func (s *Speaker) Add(st beep.Streamer) {
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

func (s *Speaker) Close() {
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}
