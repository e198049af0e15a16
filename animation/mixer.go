package animation

import (
	"fashion-show/core"
	"fashion-show/scene"
)

// Mixer plays clips on one model hierarchy. Completion is reported by the
// return value of Update, so the owner decides what happens next.
type Mixer struct {
	root    *scene.Node
	actions []*Action
	byClip  map[*Clip]*Action

	// rest holds the transform each animated node had before any action
	// touched it.
	rest map[*scene.Node]core.Transform
}

func NewMixer(root *scene.Node) *Mixer {
	return &Mixer{
		root:   root,
		byClip: make(map[*Clip]*Action),
		rest:   make(map[*scene.Node]core.Transform),
	}
}

func (m *Mixer) Root() *scene.Node { return m.root }

// ClipAction returns the action for clip, creating it on first use. The
// same clip always maps to the same action.
func (m *Mixer) ClipAction(clip *Clip) *Action {
	if a, ok := m.byClip[clip]; ok {
		return a
	}
	bind := Bind(m.root, clip)
	for _, node := range bind {
		if _, ok := m.rest[node]; !ok {
			m.rest[node] = node.Transform
		}
	}
	a := &Action{
		clip:      clip,
		mixer:     m,
		bind:      bind,
		TimeScale: 1,
	}
	m.byClip[clip] = a
	m.actions = append(m.actions, a)
	return a
}

// Update advances every running action by dt seconds and returns the
// actions that finished in this step. Each completion is reported once.
func (m *Mixer) Update(dt float32) []*Action {
	var finished []*Action
	for _, a := range m.actions {
		if !a.running {
			continue
		}
		if a.advance(dt) {
			finished = append(finished, a)
		}
	}
	return finished
}

// StopAllAction stops every action and puts the hierarchy back in its
// rest pose.
func (m *Mixer) StopAllAction() {
	for _, a := range m.actions {
		a.running = false
		a.time = 0
	}
	for node, t := range m.rest {
		node.SetTransform(t)
	}
}

// Running returns the number of actions currently playing.
func (m *Mixer) Running() int {
	n := 0
	for _, a := range m.actions {
		if a.running {
			n++
		}
	}
	return n
}

func (m *Mixer) restore(bind Binding) {
	for _, node := range bind {
		if t, ok := m.rest[node]; ok {
			node.SetTransform(t)
		}
	}
}
