package animation

// LoopMode controls what an action does when it reaches the end of its clip.
type LoopMode int

const (
	LoopRepeat LoopMode = iota
	LoopOnce
)

// Action is the playback state of one clip on one mixer. Actions are
// created by Mixer.ClipAction and advanced by Mixer.Update.
type Action struct {
	clip  *Clip
	mixer *Mixer
	bind  Binding

	Loop LoopMode
	// ClampWhenFinished holds the last frame after a LoopOnce action ends.
	// Otherwise the animated nodes return to their rest pose.
	ClampWhenFinished bool
	TimeScale         float32

	time    float32
	running bool
}

func (a *Action) Clip() *Clip { return a.clip }

// Time returns the local playback time in seconds.
func (a *Action) Time() float32 { return a.time }

func (a *Action) IsRunning() bool { return a.running }

// Reset rewinds the action to the start without starting it.
func (a *Action) Reset() *Action {
	a.time = 0
	return a
}

// Play schedules the action on its mixer. Playing a running action does
// nothing.
func (a *Action) Play() *Action {
	if !a.running {
		a.running = true
		a.clip.Sample(a.time, a.bind)
	}
	return a
}

// Stop halts the action, rewinds it and restores the rest pose of the
// nodes it animates.
func (a *Action) Stop() *Action {
	a.running = false
	a.time = 0
	a.mixer.restore(a.bind)
	return a
}

// advance moves the action forward by dt and reports whether a LoopOnce
// action completed during this step.
func (a *Action) advance(dt float32) bool {
	scale := a.TimeScale
	a.time += dt * scale
	duration := a.clip.Duration

	switch {
	case a.Loop == LoopOnce && (a.time >= duration || a.time < 0):
		a.running = false
		if a.ClampWhenFinished {
			a.time = max(0, min(a.time, duration))
			a.clip.Sample(a.time, a.bind)
		} else {
			a.time = 0
			a.mixer.restore(a.bind)
		}
		return true
	case duration <= 0:
		a.time = 0
	default:
		for a.time >= duration {
			a.time -= duration
		}
		for a.time < 0 {
			a.time += duration
		}
	}
	a.clip.Sample(a.time, a.bind)
	return false
}
