package assets

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-show/math"
	"fashion-show/scene"
)

func fakeModel(path string) *Model {
	return &Model{Root: scene.NewNode(path)}
}

func TestLoadAllJoinsEveryRequest(t *testing.T) {
	var calls atomic.Int32
	l := NewLoader(WithLoadFunc(func(_ context.Context, path string) (*Model, error) {
		calls.Add(1)
		return fakeModel(path), nil
	}))

	reqs := []Request{
		{Key: "model1", Path: "models/model1.glb", Placement: Placement{Position: math.NewVec3(40, 10, -50), Hidden: true}},
		{Key: "model2", Path: "models/model2.glb"},
		{Key: "model3", Path: "models/model3.glb"},
		{Key: "model4", Path: "models/model4.glb"},
	}
	models, err := l.LoadAll(context.Background(), reqs)
	require.NoError(t, err)

	assert.Len(t, models, 4)
	assert.EqualValues(t, 4, calls.Load())
	assert.Equal(t, "models/model3.glb", models["model3"].Root.Name)
	assert.False(t, models["model1"].Root.Visible, "placement is applied after load")
	assert.True(t, models["model2"].Root.Visible)
}

func TestLoadAllFirstFailureCancelsOthers(t *testing.T) {
	errBroken := errors.New("broken file")
	l := NewLoader(WithLoadFunc(func(ctx context.Context, path string) (*Model, error) {
		if path == "bad.glb" {
			return nil, errBroken
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	done := make(chan struct{})
	var (
		models map[string]*Model
		err    error
	)
	go func() {
		models, err = l.LoadAll(context.Background(), []Request{
			{Key: "slow", Path: "slow.glb"},
			{Key: "bad", Path: "bad.glb"},
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("LoadAll did not return after a failure")
	}
	assert.Nil(t, models)
	require.ErrorIs(t, err, errBroken)
	assert.ErrorContains(t, err, `load "bad.glb"`)
}

func TestLoadAllRetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32
	l := NewLoader(
		WithRetry(3, time.Millisecond),
		WithLoadFunc(func(_ context.Context, path string) (*Model, error) {
			if attempts.Add(1) < 3 {
				return nil, errors.New("temporarily unavailable")
			}
			return fakeModel(path), nil
		}),
	)

	models, err := l.LoadAll(context.Background(), []Request{{Key: "stage", Path: "stage1.glb"}})
	require.NoError(t, err)
	assert.Contains(t, models, "stage")
	assert.EqualValues(t, 3, attempts.Load())
}

func TestLoadAllGivesUpAfterRetries(t *testing.T) {
	var attempts atomic.Int32
	l := NewLoader(
		WithRetry(2, time.Millisecond),
		WithLoadFunc(func(context.Context, string) (*Model, error) {
			attempts.Add(1)
			return nil, errors.New("missing")
		}),
	)

	_, err := l.LoadAll(context.Background(), []Request{{Key: "stage", Path: "stage1.glb"}})
	assert.ErrorContains(t, err, "missing")
	assert.EqualValues(t, 3, attempts.Load())
}

func TestLoadAllBackoffHonoursCancellation(t *testing.T) {
	l := NewLoader(
		WithRetry(5, time.Hour),
		WithLoadFunc(func(context.Context, string) (*Model, error) {
			return nil, errors.New("missing")
		}),
	)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	_, err := l.LoadAll(ctx, []Request{{Key: "stage", Path: "stage1.glb"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadAllRejectsDuplicateKeys(t *testing.T) {
	l := NewLoader(WithLoadFunc(func(_ context.Context, path string) (*Model, error) {
		return fakeModel(path), nil
	}))
	_, err := l.LoadAll(context.Background(), []Request{{Key: "a", Path: "x"}, {Key: "a", Path: "y"}})
	assert.ErrorContains(t, err, "duplicate")
}
