// Package discoveryboard provides an embeddable live dashboard for a
// drug-discovery research API.
//
// The dashboard polls two independent resources, drug candidates from the
// molecular design service and clinical trials from the trial monitor, and
// keeps an in-memory view of the most recent successful result of each. A
// failure on one resource never discards data already shown for the other.
//
// # Quick Start
//
//	db, _ := discoveryboard.New(discoveryboard.WithBaseURL("http://localhost:8000"))
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	db.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// Dashboard uses the functional options pattern:
//
//	db, err := discoveryboard.New(
//	    discoveryboard.WithBaseURL("https://research.example.com/api"),
//	    discoveryboard.WithPollingInterval(30 * time.Second),
//	    discoveryboard.WithRequestTimeout(5 * time.Second),
//	    discoveryboard.WithHeaders("Authorization", "Bearer token"),
//	    discoveryboard.WithPort(9090),
//	)
//
// The config package loads the same settings from YAML.
//
// # Refresh semantics
//
// Each refresh cycle fetches both resources concurrently and applies each
// result as soon as it arrives. The view is marked loading from activation
// until the first cycle settles; later cycles keep showing the previous data
// while they run. Failures are retried only by the next scheduled cycle.
//
// # Architecture
//
//   - model: domain types (drug candidates, clinical trials, view state)
//   - internal/poller: the refresh loop and the HTTP API source
//   - internal/store: in-memory view state with pub/sub for live updates
//   - internal/view: dashboard view model and HTML/text rendering
//   - internal/server: HTTP server with the dashboard page, JSON, SSE and WebSocket
//   - dashboard: embedded templates
package discoveryboard
