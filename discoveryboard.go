package discoveryboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/discoveryboard/dashboard"
	"github.com/jpalmerr/discoveryboard/internal/poller"
	"github.com/jpalmerr/discoveryboard/internal/server"
	"github.com/jpalmerr/discoveryboard/internal/store"
	"github.com/jpalmerr/discoveryboard/internal/view"
)

const (
	defaultPollingInterval = poller.DefaultInterval
	defaultPort            = 8080
	defaultRequestTimeout  = poller.DefaultRequestTimeout
)

// Dashboard is the main orchestrator for syncing research data and serving
// the dashboard.
//
// Dashboard keeps an in-memory view of the research API's drug candidates
// and clinical trials, refreshes it on a fixed interval, and serves it as a
// live web dashboard. It is created using [New] with functional options and
// started with [Dashboard.Start].
//
// The typical lifecycle is:
//
//	db, err := discoveryboard.New(discoveryboard.WithBaseURL("http://research.internal:8000"))
//	if err != nil {
//	    slog.Error("failed to create dashboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	db.Start(ctx) // blocks until context cancelled
type Dashboard struct {
	title           string
	api             poller.APIConfig
	pollingInterval time.Duration
	port            int
	logger          *slog.Logger
	viewCallbacks   []func(ViewState)
}

// New creates a new [Dashboard] with the given options.
//
// A base URL must be configured via [WithBaseURL]. Other options have
// defaults:
//   - Polling interval: 30 seconds
//   - Port: 8080
//   - Request timeout: 10 seconds
//   - API paths: /molecular-design/candidates and /clinical-trials/monitor
//
// Returns an error if no base URL is configured or if any option is invalid.
func New(opts ...Option) (*Dashboard, error) {
	cfg := &dbConfig{
		headers:         make(map[string]string),
		pollingInterval: defaultPollingInterval,
		port:            defaultPort,
		requestTimeout:  defaultRequestTimeout,
		candidatesPath:  poller.DefaultCandidatesPath,
		trialsPath:      poller.DefaultTrialsPath,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.baseURL == "" {
		return nil, errors.New("base URL is required")
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Dashboard{
		title: cfg.title,
		api: poller.APIConfig{
			BaseURL:        cfg.baseURL,
			CandidatesPath: cfg.candidatesPath,
			TrialsPath:     cfg.trialsPath,
			Headers:        copyMap(cfg.headers),
			Timeout:        cfg.requestTimeout,
		},
		pollingInterval: cfg.pollingInterval,
		port:            cfg.port,
		logger:          logger,
		viewCallbacks:   cfg.viewCallbacks,
	}, nil
}

// Start begins syncing and serving the dashboard.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - The HTTP server starts on the configured port
//   - The view is activated and refreshed immediately, then at the configured interval
//   - View callbacks are invoked after every view state change
//   - The dashboard is available at http://localhost:<port>
//
// Returns nil on graceful shutdown. Returns an error if the templates cannot
// be loaded or the HTTP server fails to start.
func (d *Dashboard) Start(ctx context.Context) error {
	source := poller.NewAPISource(d.api, d.logger)
	defer source.Close()

	d.logger.Info("discoveryboard starting",
		"candidates_url", source.CandidatesURL(),
		"trials_url", source.TrialsURL(),
	)
	d.logger.Info("polling configured", "interval", d.pollingInterval.String())
	d.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", d.port))

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	renderer, err := view.NewRenderer(dashboard.Assets)
	if err != nil {
		return fmt.Errorf("failed to load dashboard templates: %w", err)
	}

	viewStore := store.NewMemoryStore()

	// subscribe before the syncer starts so callbacks observe activation
	var wg sync.WaitGroup
	var updates <-chan ViewState
	if len(d.viewCallbacks) > 0 {
		updates = viewStore.Subscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for state := range updates {
				for _, cb := range d.viewCallbacks {
					invokeCallbackSafe(cb, state, d.logger)
				}
			}
		}()
	}

	syncer := poller.NewSyncer(source, viewStore, d.pollingInterval, d.logger)

	// cleanup stops the syncer and drains the callback consumer
	cleanup := func() {
		syncer.Stop()
		if updates != nil {
			viewStore.Unsubscribe(updates)
			wg.Wait()
		}
	}

	httpServer := server.NewServer(viewStore, d.port, renderer, d.title, d.logger)
	if err := httpServer.Start(ctx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	syncer.Start(ctx)

	<-ctx.Done()
	cleanup()
	d.logger.Info("discoveryboard stopped")
	return nil
}

// Snapshot runs a single refresh cycle against the research API and returns
// the resulting view state. No server is started.
//
// Per-resource failures do not produce an error; they are reported in the
// returned state's CandidatesError and TrialsError fields.
func (d *Dashboard) Snapshot(ctx context.Context) (ViewState, error) {
	viewStore := store.NewMemoryStore()
	source := poller.NewAPISource(d.api, d.logger)
	defer source.Close()

	syncer := poller.NewSyncer(source, viewStore, d.pollingInterval, d.logger)
	defer syncer.Stop()

	if err := syncer.Refresh(ctx); err != nil {
		return ViewState{}, err
	}
	return viewStore.Snapshot(), nil
}

// Title returns the configured dashboard title, or an empty string for the default.
func (d *Dashboard) Title() string {
	return d.title
}

// BaseURL returns the research API base URL.
func (d *Dashboard) BaseURL() string {
	return d.api.BaseURL
}

// Port returns the configured HTTP port for the dashboard server.
func (d *Dashboard) Port() int {
	return d.port
}

// PollingInterval returns the configured interval between refresh cycles.
func (d *Dashboard) PollingInterval() time.Duration {
	return d.pollingInterval
}

// RequestTimeout returns the per-request timeout for API calls.
func (d *Dashboard) RequestTimeout() time.Duration {
	return d.api.Timeout
}

// Headers returns a copy of the headers sent with every API request.
func (d *Dashboard) Headers() map[string]string {
	return copyMap(d.api.Headers)
}

// invokeCallbackSafe calls a view callback with panic recovery.
// Panics are logged with a correlation ID but do not propagate.
func invokeCallbackSafe(cb func(ViewState), state ViewState, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("view callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	cb(state.Clone())
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
