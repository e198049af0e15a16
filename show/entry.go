// Package show sequences the runway: a keypress picks an ordering of the
// loaded models and the queue plays them one after another.
package show

import (
	"fashion-show/animation"
	"fashion-show/scene"
)

// EntryState is the lifecycle of a model within a sequence.
type EntryState int

const (
	Hidden EntryState = iota
	Playing
)

func (s EntryState) String() string {
	if s == Playing {
		return "playing"
	}
	return "hidden"
}

// Entry is one runway model with its clips and its own mixer. Entries are
// created once after loading and live for the whole session; only the
// queue changes their state.
type Entry struct {
	Key   string
	Model *scene.Node
	Clips []*animation.Clip
	Mixer *animation.Mixer

	state EntryState
	// waiting holds the actions started for the current run that have
	// not reported completion yet.
	waiting map[*animation.Action]struct{}
}

// NewEntry wraps a loaded model. The model starts hidden.
func NewEntry(key string, model *scene.Node, clips []*animation.Clip) *Entry {
	model.Visible = false
	return &Entry{
		Key:   key,
		Model: model,
		Clips: clips,
		Mixer: animation.NewMixer(model),
	}
}

func (e *Entry) State() EntryState { return e.state }

func (e *Entry) Visible() bool { return e.Model.Visible }

// play shows the model and starts every clip once, holding the last frame.
func (e *Entry) play() {
	e.Model.Visible = true
	e.waiting = make(map[*animation.Action]struct{}, len(e.Clips))
	for _, clip := range e.Clips {
		a := e.Mixer.ClipAction(clip)
		a.Loop = animation.LoopOnce
		a.ClampWhenFinished = true
		a.Reset().Play()
		e.waiting[a] = struct{}{}
	}
}

// stop halts every action, restores the rest pose and hides the model.
func (e *Entry) stop() {
	e.Mixer.StopAllAction()
	e.Model.Visible = false
	e.waiting = nil
}

// done reports whether every action of the current run has finished.
func (e *Entry) done() bool { return len(e.waiting) == 0 }
