package show

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fashion-show/animation"
	"fashion-show/math"
	"fashion-show/scene"
)

type mockCue struct{ mock.Mock }

func (m *mockCue) Play() { m.Called() }

// newEntry builds a model whose clips last the given durations.
func newEntry(key string, durations ...float32) *Entry {
	root := scene.NewNode(key)
	hips := scene.NewNode("hips")
	root.AddChild(hips)

	clips := make([]*animation.Clip, len(durations))
	for i, d := range durations {
		clips[i] = animation.NewClip(key+"_clip", []*animation.Track{{
			Node:    "hips",
			Path:    animation.PathTranslation,
			Times:   []float32{0, d},
			Vectors: []math.Vec3{{}, {Y: 1}},
		}})
	}
	return NewEntry(key, root, clips)
}

type fixture struct {
	t          *testing.T
	queue      *Queue
	roster     Roster
	dispatcher *Dispatcher
	cue        *mockCue
	events     []string
}

func newFixture(t *testing.T, base []string, opts ...QueueOption) *fixture {
	t.Helper()
	f := &fixture{t: t, roster: Roster{}, cue: &mockCue{}}
	f.cue.On("Play").Return()
	for _, k := range base {
		f.roster[k] = newEntry(k, 1)
	}

	opts = append(opts, WithTransitionObserver(f.observe))
	f.queue = NewQueue(opts...)

	table, err := NewPermutationTable(base, DefaultPermutations)
	require.NoError(t, err)
	f.dispatcher, err = NewDispatcher(table, f.roster, f.queue, f.cue)
	require.NoError(t, err)
	return f
}

func (f *fixture) observe(tr Transition) {
	switch {
	case tr.SequenceDone:
		f.events = append(f.events, "done")
	case tr.To == Playing:
		f.events = append(f.events, "+"+tr.Key)
		assert.Equal(f.t, []string{tr.Key}, f.visible(), "only the new entry is visible")
	default:
		f.events = append(f.events, "-"+tr.Key)
	}
}

func (f *fixture) visible() []string {
	var out []string
	for k, e := range f.roster {
		if e.Visible() {
			out = append(out, k)
		}
	}
	return out
}

func (f *fixture) playing() []string {
	var out []string
	for k, e := range f.roster {
		if e.State() == Playing {
			out = append(out, k)
		}
	}
	return out
}

// run advances until the queue goes idle.
func (f *fixture) run() {
	for i := 0; i < 100 && f.queue.Active(); i++ {
		f.queue.Update(0.6)
	}
	require.False(f.t, f.queue.Active(), "queue never finished")
}

func TestDefaultPermutationsAreRearrangementsOfBase(t *testing.T) {
	table := DefaultPermutationTable()
	require.Equal(t, []string{"1", "2", "3", "4"}, table.Symbols())
	for _, symbol := range table.Symbols() {
		keys, ok := table.Lookup(symbol)
		require.True(t, ok)
		assert.ElementsMatch(t, DefaultBase, keys, "symbol %s", symbol)
	}
}

func TestPermutationTableRejectsNonBijections(t *testing.T) {
	base := []string{"a", "b", "c"}
	cases := map[string][]int{
		"duplicate":    {0, 0, 1},
		"omission":     {0, 1},
		"too long":     {0, 1, 2, 0},
		"out of range": {0, 1, 3},
		"negative":     {-1, 0, 1},
	}
	for name, perm := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPermutationTable(base, map[string][]int{"x": perm})
			assert.ErrorIs(t, err, ErrInvalidPermutation)
		})
	}

	_, err := NewPermutationTable(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidPermutation)
	_, err = NewPermutationTable([]string{"a", "a"}, nil)
	assert.ErrorIs(t, err, ErrInvalidPermutation)
}

func TestPermutationTableCopiesInput(t *testing.T) {
	perm := []int{1, 0}
	table, err := NewPermutationTable([]string{"a", "b"}, map[string][]int{"k": perm})
	require.NoError(t, err)
	perm[0] = 0

	keys, _ := table.Lookup("k")
	assert.Equal(t, []string{"b", "a"}, keys)
}

func TestKeyOnePlaysBaseOrder(t *testing.T) {
	f := newFixture(t, DefaultBase)
	require.NoError(t, f.dispatcher.Dispatch("1"))
	f.run()

	assert.Equal(t, []string{
		"+model1", "-model1", "+model2", "-model2",
		"+model3", "-model3", "+model4", "-model4", "done",
	}, f.events)
}

func TestKeyFourPlaysModelFourFirst(t *testing.T) {
	f := newFixture(t, DefaultBase)
	require.NoError(t, f.dispatcher.Dispatch("4"))
	f.run()

	assert.Equal(t, []string{
		"-model4", "+model1", "-model1",
		"+model2", "-model2", "+model3", "-model3", "done",
	}, f.events)
}

func TestDispatchThreeScenario(t *testing.T) {
	f := newFixture(t, []string{"A", "B", "C", "D"})
	require.NoError(t, f.dispatcher.Dispatch("3"))
	f.cue.AssertNumberOfCalls(t, "Play", 1)
	f.run()

	assert.Equal(t, []string{"+C", "-C", "+A", "-A", "+B", "-B", "+D", "-D", "done"}, f.events)
	f.cue.AssertNumberOfCalls(t, "Play", 1)
}

func TestNoTransitionsAfterExhaustion(t *testing.T) {
	f := newFixture(t, DefaultBase)
	require.NoError(t, f.dispatcher.Dispatch("2"))
	f.run()
	n := len(f.events)

	for i := 0; i < 10; i++ {
		f.queue.Update(1)
	}
	assert.Len(t, f.events, n)
	assert.Empty(t, f.visible())
	assert.Nil(t, f.queue.Current())
}

func TestEntryWaitsForAllClips(t *testing.T) {
	q := NewQueue()
	e := newEntry("model1", 1, 2)
	require.NoError(t, q.Trigger([]*Entry{e}, nil))

	q.Update(1.5)
	assert.Equal(t, Playing, e.State(), "the longer clip is still running")

	q.Update(1)
	assert.Equal(t, Hidden, e.State())
	assert.False(t, q.Active())
}

func TestEntryWithoutClipsFinishesOnNextUpdate(t *testing.T) {
	q := NewQueue()
	e := newEntry("model1")
	require.NoError(t, q.Trigger([]*Entry{e}, nil))
	assert.Equal(t, Playing, e.State())

	q.Update(0)
	assert.Equal(t, Hidden, e.State())
}

func TestFinishedEntryHoldsLastFrameUntilRetriggered(t *testing.T) {
	q := NewQueue()
	a := newEntry("a", 1)
	b := newEntry("b", 1)
	hips := a.Model.Find("hips")

	require.NoError(t, q.Trigger([]*Entry{a, b}, nil))
	q.Update(1.5)
	assert.InDelta(t, 1, hips.Transform.Position.Y, 1e-6, "clamped at the last key")
	assert.False(t, a.Visible())

	require.NoError(t, q.Trigger([]*Entry{b, a}, nil))
	assert.InDelta(t, 0, hips.Transform.Position.Y, 1e-6, "trigger restores the rest pose")
}

func TestOverlappingTriggerDiscardsPreviousSequence(t *testing.T) {
	f := newFixture(t, DefaultBase)
	require.NoError(t, f.dispatcher.Dispatch("1"))
	f.queue.Update(1.1)
	require.Equal(t, []string{"model2"}, f.playing())

	f.events = nil
	require.NoError(t, f.dispatcher.Dispatch("4"))
	assert.Equal(t, []string{"-model2", "+model4"}, f.events, "only the running model is hidden")
	assert.Equal(t, []string{"model4"}, f.playing())
	assert.Equal(t, []string{"model4"}, f.visible())
	assert.Equal(t, []string{"model1", "model2", "model3"}, keys(f.queue.Pending()))
	assert.Zero(t, f.roster["model2"].Mixer.Running(), "in-flight clips are stopped")

	f.events = nil
	f.run()
	assert.Equal(t, []string{
		"-model4", "+model1", "-model1",
		"+model2", "-model2", "+model3", "-model3", "done",
	}, f.events)
	f.cue.AssertNumberOfCalls(t, "Play", 2)
}

func TestRejectPolicyLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, DefaultBase, WithPolicy(OverlapReject))
	require.NoError(t, f.dispatcher.Dispatch("1"))
	gen := f.queue.Generation()

	assert.ErrorIs(t, f.dispatcher.Dispatch("2"), ErrSequenceActive)
	err := f.queue.Trigger([]*Entry{f.roster["model3"]}, nil)
	assert.ErrorIs(t, err, ErrSequenceActive)

	assert.Equal(t, gen, f.queue.Generation())
	assert.Same(t, f.roster["model1"], f.queue.Current())
	assert.Len(t, f.queue.Pending(), 3)
	f.cue.AssertNumberOfCalls(t, "Play", 1)

	f.run()
	assert.NoError(t, f.dispatcher.Dispatch("2"), "accepted again once idle")
}

func TestTriggerFromObserverDropsStaleContinuation(t *testing.T) {
	q := NewQueue()
	a, b, c := newEntry("a", 1), newEntry("b", 1), newEntry("c", 1)
	retriggered := false
	q.OnTransition = func(tr Transition) {
		if tr.Key == "a" && tr.To == Hidden && !retriggered {
			retriggered = true
			require.NoError(t, q.Trigger([]*Entry{c, a}, nil))
		}
	}

	require.NoError(t, q.Trigger([]*Entry{a, b}, nil))
	q.Update(1.5)

	assert.Same(t, c, q.Current(), "b from the discarded sequence must not start")
	assert.Equal(t, Hidden, b.State())
	assert.Equal(t, []*Entry{a}, q.Pending())
}

func TestTriggerRejectsEmptyOrder(t *testing.T) {
	assert.ErrorIs(t, NewQueue().Trigger(nil, nil), ErrEmptyOrder)
}

func TestDispatchIgnoresUnboundSymbols(t *testing.T) {
	f := newFixture(t, DefaultBase)
	assert.ErrorIs(t, f.dispatcher.Dispatch("9"), ErrUnboundSymbol)
	assert.False(t, f.queue.Active())
	f.cue.AssertNotCalled(t, "Play")
}

func TestNewDispatcherRequiresEveryBaseKey(t *testing.T) {
	roster := Roster{
		"model1": newEntry("model1", 1),
		"model2": newEntry("model2", 1),
		"model4": newEntry("model4", 1),
	}
	_, err := NewDispatcher(DefaultPermutationTable(), roster, NewQueue(), nil)
	require.ErrorIs(t, err, ErrMissingEntry)
	assert.ErrorContains(t, err, "model3")
}

func TestParseOverlapPolicy(t *testing.T) {
	p, err := ParseOverlapPolicy("Reject")
	require.NoError(t, err)
	assert.Equal(t, OverlapReject, p)

	p, err = ParseOverlapPolicy("")
	require.NoError(t, err)
	assert.Equal(t, OverlapDiscard, p)

	_, err = ParseOverlapPolicy("merge")
	assert.Error(t, err)
}
