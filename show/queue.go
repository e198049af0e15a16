package show

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fashion-show/internal/logging"
)

var (
	ErrEmptyOrder     = errors.New("empty order")
	ErrSequenceActive = errors.New("sequence already active")
)

// Cue is a fire-and-forget sound played when a sequence starts.
type Cue interface {
	Play()
}

// OverlapPolicy decides what a trigger does while a sequence is running.
type OverlapPolicy int

const (
	// OverlapDiscard stops the running sequence and drops what is left of it.
	OverlapDiscard OverlapPolicy = iota
	// OverlapReject refuses the trigger until the running sequence ends.
	OverlapReject
)

func (p OverlapPolicy) String() string {
	if p == OverlapReject {
		return "reject"
	}
	return "discard"
}

// ParseOverlapPolicy reads "discard" or "reject".
func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discard":
		return OverlapDiscard, nil
	case "reject":
		return OverlapReject, nil
	}
	return OverlapDiscard, fmt.Errorf("unknown overlap policy %q", s)
}

// Transition reports an entry state change. The last transition of a
// completed sequence has SequenceDone set and no Key.
type Transition struct {
	Key          string
	From, To     EntryState
	SequenceDone bool
	Generation   uint64
}

// Queue plays an ordering of entries one after another. It is driven by
// Update from the render loop and is not safe for concurrent use.
type Queue struct {
	Policy       OverlapPolicy
	OnTransition func(Transition)
	Logger       *slog.Logger

	entries    []*Entry
	registered map[*Entry]bool
	current    *Entry
	pending    []*Entry

	// generation increments on every accepted trigger; a continuation
	// that observes a different value belongs to a discarded sequence.
	generation uint64
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

func WithPolicy(p OverlapPolicy) QueueOption {
	return func(q *Queue) {
		q.Policy = p
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) QueueOption {
	return func(q *Queue) {
		q.Logger = logger
	}
}

// WithTransitionObserver installs fn as OnTransition.
func WithTransitionObserver(fn func(Transition)) QueueOption {
	return func(q *Queue) {
		q.OnTransition = fn
	}
}

func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		Logger:     logging.NewNop(),
		registered: make(map[*Entry]bool),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Register adds entries whose mixers the queue advances and stops.
// Entries passed to Trigger are registered automatically.
func (q *Queue) Register(entries ...*Entry) {
	for _, e := range entries {
		if e == nil || q.registered[e] {
			continue
		}
		q.registered[e] = true
		q.entries = append(q.entries, e)
	}
}

// Active reports whether a sequence is playing or has entries left.
func (q *Queue) Active() bool {
	return q.current != nil || len(q.pending) > 0
}

// Current returns the entry on the runway, or nil.
func (q *Queue) Current() *Entry { return q.current }

// Pending returns the entries still waiting in the current sequence.
func (q *Queue) Pending() []*Entry {
	out := make([]*Entry, len(q.pending))
	copy(out, q.pending)
	return out
}

func (q *Queue) Generation() uint64 { return q.generation }

// Trigger starts a new sequence. Every registered entry is stopped and
// hidden, the first entry of order starts playing, and cue plays once if
// it is not nil.
func (q *Queue) Trigger(order []*Entry, cue Cue) error {
	if len(order) == 0 {
		return ErrEmptyOrder
	}
	if q.Active() {
		if q.Policy == OverlapReject {
			return ErrSequenceActive
		}
		q.Logger.Debug("sequence discarded", "generation", q.generation, "dropped", len(q.pending))
	}

	q.Register(order...)
	q.generation++
	gen := q.generation

	q.current = nil
	q.pending = nil
	for _, e := range q.entries {
		prev := e.state
		e.stop()
		e.state = Hidden
		if prev != Hidden {
			q.emit(Transition{Key: e.Key, From: prev, To: Hidden})
			if q.generation != gen {
				return nil
			}
		}
	}

	q.pending = append([]*Entry(nil), order[1:]...)
	q.Logger.Info("sequence started", "generation", gen, "order", keys(order))
	if cue != nil {
		cue.Play()
	}
	q.start(order[0])
	return nil
}

// Update advances every mixer by dt seconds, then moves the sequence on
// if the current entry has finished.
func (q *Queue) Update(dt float32) {
	for _, e := range q.entries {
		finished := e.Mixer.Update(dt)
		if e != q.current {
			continue
		}
		for _, a := range finished {
			delete(e.waiting, a)
		}
	}
	if q.current != nil && q.current.done() {
		q.finish(q.current)
	}
}

func (q *Queue) start(e *Entry) {
	q.current = e
	e.play()
	prev := e.state
	e.state = Playing
	q.Logger.Debug("entry playing", "key", e.Key, "clips", len(e.Clips))
	q.emit(Transition{Key: e.Key, From: prev, To: Playing})
}

// finish hides e and starts the next pending entry. Observers may trigger
// a new sequence from inside a transition; the rest of this continuation
// is then dropped.
func (q *Queue) finish(e *Entry) {
	gen := q.generation
	q.current = nil
	e.Model.Visible = false
	e.state = Hidden
	q.emit(Transition{Key: e.Key, From: Playing, To: Hidden})
	if q.generation != gen {
		return
	}

	if len(q.pending) == 0 {
		q.Logger.Info("sequence finished", "generation", gen)
		q.emit(Transition{SequenceDone: true})
		return
	}
	next := q.pending[0]
	q.pending = q.pending[1:]
	q.start(next)
}

func (q *Queue) emit(t Transition) {
	t.Generation = q.generation
	if q.OnTransition != nil {
		q.OnTransition(t)
	}
}

func keys(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}
