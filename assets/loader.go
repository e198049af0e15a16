package assets

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fashion-show/internal/logging"
)

// LoadFunc decodes one asset file. It runs on worker goroutines and must
// not make GL calls.
type LoadFunc func(ctx context.Context, path string) (*Model, error)

// Request names one asset to load and where to put it.
type Request struct {
	Key       string
	Path      string
	Placement Placement
}

// Loader loads a batch of models concurrently and joins them into one
// complete mapping.
type Loader struct {
	Load    LoadFunc
	Retries int           // extra attempts after the first failure
	Backoff time.Duration // delay before the first retry, doubled each time
	Logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLoadFunc replaces the glTF decoder, mainly for tests.
func WithLoadFunc(fn LoadFunc) Option {
	return func(l *Loader) {
		l.Load = fn
	}
}

// WithRetry retries failed loads with exponential backoff.
func WithRetry(retries int, backoff time.Duration) Option {
	return func(l *Loader) {
		l.Retries = retries
		l.Backoff = backoff
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.Logger = logger
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	if l.Load == nil {
		log := l.Logger
		l.Load = func(_ context.Context, path string) (*Model, error) {
			return loadGLTF(path, log)
		}
	}
	return l
}

// LoadAll starts every request at once and waits for all of them. It
// returns the models keyed by Request.Key with placement applied, or the
// first failure; a failure cancels the context seen by the others.
func (l *Loader) LoadAll(ctx context.Context, reqs []Request) (map[string]*Model, error) {
	seen := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		if seen[r.Key] {
			return nil, fmt.Errorf("duplicate asset key %q", r.Key)
		}
		seen[r.Key] = true
	}

	var (
		mu     sync.Mutex
		models = make(map[string]*Model, len(reqs))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, req := range reqs {
		g.Go(func() error {
			start := time.Now()
			m, err := l.loadWithRetry(gctx, req.Path)
			if err != nil {
				return fmt.Errorf("load %q: %w", req.Path, err)
			}
			req.Placement.Apply(m.Root)
			l.Logger.Debug("asset loaded", "key", req.Key, "path", req.Path, "clips", len(m.Clips), "took", time.Since(start))

			mu.Lock()
			models[req.Key] = m
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}

func (l *Loader) loadWithRetry(ctx context.Context, path string) (*Model, error) {
	delay := l.Backoff
	for attempt := 0; ; attempt++ {
		m, err := l.Load(ctx, path)
		if err == nil {
			return m, nil
		}
		if attempt >= l.Retries {
			return nil, err
		}
		l.Logger.Warn("asset load failed, retrying", "path", path, "attempt", attempt+1, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
