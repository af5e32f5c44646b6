package poller

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/discoveryboard/internal/store"
	"github.com/jpalmerr/discoveryboard/model"
)

// DefaultInterval is the refresh interval used when none is configured.
const DefaultInterval = 30 * time.Second

// Syncer keeps a [store.Store] in sync with a remote [Source].
//
// A Syncer refreshes immediately on [Syncer.Start] and then once per interval
// until [Syncer.Stop]. Every refresh cycle fetches candidates and trials
// concurrently; each result is applied to the store as soon as it settles, so
// a slow or failing resource never holds back the other one. A failed fetch
// leaves the previously stored collection in place.
//
// Cycles never overlap: the next tick is only taken once the current cycle
// has settled, and ticks missed in the meantime are dropped.
//
// Stop invalidates everything issued before it. A fetch that resolves after
// Stop returns is discarded without touching the store.
//
// All lifecycle methods are safe for concurrent use.
type Syncer struct {
	source   Source
	store    store.Store
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	// generation is bumped by Stop; results carry the generation they were
	// issued under and are applied only if it is still current.
	generation uint64
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	// cycleMu serializes cycles between the loop and Refresh.
	cycleMu sync.Mutex
}

// NewSyncer creates a [Syncer]. A non-positive interval falls back to
// [DefaultInterval]; a nil logger falls back to slog.Default().
func NewSyncer(source Source, st store.Store, interval time.Duration, logger *slog.Logger) *Syncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		source:   source,
		store:    st,
		interval: interval,
		logger:   logger,
	}
}

// Interval returns the configured refresh interval.
func (s *Syncer) Interval() time.Duration {
	return s.interval
}

// Start activates the view state and begins the refresh loop in a background
// goroutine.
//
// Start is non-blocking. The loop runs one cycle immediately, then one per
// interval until [Syncer.Stop] is called or ctx is cancelled. Cancelling ctx
// has the same effect as Stop: late results are discarded and the syncer
// cannot be started again.
//
// If ctx is nil, context.Background() is used as the parent context.
// Start is idempotent; subsequent calls after the first are no-ops.
// If Stop was called before Start, Start is a no-op.
func (s *Syncer) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	gen := s.generation
	s.wg.Add(1)
	s.mu.Unlock()

	s.store.Activate()

	go func() {
		defer s.wg.Done()
		// a cancelled parent ctx stops the syncer the same way Stop does
		defer s.halt()

		if !s.awaitCycle(loopCtx, gen) {
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if !s.awaitCycle(loopCtx, gen) {
					return
				}
			}
		}
	}()
}

// Stop halts the refresh loop.
//
// Stop cancels in-flight requests, bumps the generation so that any result
// still on its way is discarded, and waits for the loop goroutine to exit.
// It does not wait for fetches that ignore cancellation.
//
// Stop is idempotent and safe to call before Start.
func (s *Syncer) Stop() {
	s.halt()
	s.wg.Wait()
}

// halt marks the syncer stopped, invalidates the current generation and
// cancels the loop context. Only the first call has any effect.
func (s *Syncer) halt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.generation++
	if s.cancel != nil {
		s.cancel()
	}
}

// Running reports whether the loop has been started and not stopped.
func (s *Syncer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.stopped
}

// Refresh runs exactly one cycle synchronously, activating the view state
// first if needed. It returns [ErrStopped] once the syncer has been stopped.
//
// Per-resource failures are not returned; like scheduled cycles they are
// logged and recorded in the store.
func (s *Syncer) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	gen := s.generation
	s.mu.Unlock()

	s.store.Activate()
	s.runCycle(ctx, gen)
	return nil
}

// awaitCycle runs a cycle in its own goroutine and waits for it to settle.
// It returns false if ctx is cancelled first; the abandoned cycle finishes on
// its own and its results are discarded by the generation check.
func (s *Syncer) awaitCycle(ctx context.Context, gen uint64) bool {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.runCycle(ctx, gen)
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

// runCycle fetches both resources concurrently and applies each result as it
// settles. Once both have settled the loading flag is cleared.
func (s *Syncer) runCycle(ctx context.Context, gen uint64) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	cycleID := uuid.NewString()
	logger := s.logger.With("cycle_id", cycleID)
	logger.Debug("refresh cycle started")

	// every task returns nil so Wait never short-circuits on a failure
	var g errgroup.Group
	g.Go(func() error {
		s.syncCandidates(ctx, gen, logger)
		return nil
	})
	g.Go(func() error {
		s.syncTrials(ctx, gen, logger)
		return nil
	})
	_ = g.Wait()

	s.apply(gen, func() {
		if s.store.MarkLoaded() {
			logger.Info("initial load complete")
		}
	})
	logger.Debug("refresh cycle settled")
}

func (s *Syncer) syncCandidates(ctx context.Context, gen uint64, logger *slog.Logger) {
	start := time.Now()
	candidates, err := safeFetch(logger, model.ResourceCandidates, func() ([]model.DrugCandidate, error) {
		return s.source.FetchCandidates(ctx)
	})
	s.settle(gen, logger, model.ResourceCandidates, time.Since(start), len(candidates), err, func(at time.Time) {
		s.store.SetCandidates(candidates, at)
	})
}

func (s *Syncer) syncTrials(ctx context.Context, gen uint64, logger *slog.Logger) {
	start := time.Now()
	trials, err := safeFetch(logger, model.ResourceTrials, func() ([]model.ClinicalTrial, error) {
		return s.source.FetchTrials(ctx)
	})
	s.settle(gen, logger, model.ResourceTrials, time.Since(start), len(trials), err, func(at time.Time) {
		s.store.SetTrials(trials, at)
	})
}

// settle applies one resource's outcome: the collection on success, the
// error otherwise.
func (s *Syncer) settle(gen uint64, logger *slog.Logger, resource model.Resource, latency time.Duration, count int, err error, update func(at time.Time)) {
	applied := s.apply(gen, func() {
		if err != nil {
			s.store.SetError(resource, err)
			return
		}
		update(time.Now())
	})

	attrs := []any{
		"resource", string(resource),
		"latency_ms", latency.Milliseconds(),
	}
	switch {
	case !applied:
		logger.Debug("discarding result after stop", attrs...)
	case err != nil:
		logger.Warn("fetch failed, keeping previous data", append(attrs, "error", err.Error())...)
	default:
		logger.Debug("fetch completed", append(attrs, "count", count)...)
	}
}

// apply runs fn only if gen is still the current generation. The check and
// fn happen under s.mu, so Stop cannot interleave between them.
func (s *Syncer) apply(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	fn()
	return true
}

// safeFetch calls fetch with panic recovery so a misbehaving [Source] cannot
// take down the refresh loop. A panic is logged with a correlation ID and
// reported as a network error for the resource.
func safeFetch[T any](logger *slog.Logger, resource model.Resource, fetch func() ([]T, error)) (items []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			logger.Error("source panic",
				"correlation_id", correlationID,
				"resource", string(resource),
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			items = nil
			err = &FetchError{
				Resource: resource,
				Kind:     ErrNetwork,
				Err:      fmt.Errorf("source panic (correlation_id: %s)", correlationID),
			}
		}
	}()
	return fetch()
}
