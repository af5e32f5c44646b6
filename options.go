package discoveryboard

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// dbConfig holds mutable state during Dashboard construction.
type dbConfig struct {
	title           string
	baseURL         string
	candidatesPath  string
	trialsPath      string
	headers         map[string]string
	requestTimeout  time.Duration
	pollingInterval time.Duration
	port            int
	logger          *slog.Logger
	viewCallbacks   []func(ViewState)
}

// Option is a function that configures a [Dashboard] during construction.
//
// Options return an error if validation fails.
type Option func(*dbConfig) error

// WithBaseURL sets the research API base URL. Required.
//
// Both resource paths are appended to it, so a trailing slash is ignored.
//
// Example:
//
//	db, err := discoveryboard.New(
//	    discoveryboard.WithBaseURL("https://research.example.com/api"),
//	)
//
// Returns an error if the URL cannot be parsed or is not http or https.
func WithBaseURL(rawURL string) Option {
	return func(cfg *dbConfig) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return errors.New("invalid base URL: " + err.Error())
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.New("base URL must have a scheme (http:// or https://)")
		}
		if u.Host == "" {
			return errors.New("base URL must have a host")
		}
		cfg.baseURL = strings.TrimRight(rawURL, "/")
		return nil
	}
}

// WithCandidatesPath overrides the drug candidates path
// (default "/molecular-design/candidates").
//
// Returns an error if the path does not start with "/".
func WithCandidatesPath(path string) Option {
	return func(cfg *dbConfig) error {
		if !strings.HasPrefix(path, "/") {
			return errors.New("candidates path must start with /")
		}
		cfg.candidatesPath = path
		return nil
	}
}

// WithTrialsPath overrides the clinical trials path
// (default "/clinical-trials/monitor").
//
// Returns an error if the path does not start with "/".
func WithTrialsPath(path string) Option {
	return func(cfg *dbConfig) error {
		if !strings.HasPrefix(path, "/") {
			return errors.New("trials path must start with /")
		}
		cfg.trialsPath = path
		return nil
	}
}

// WithHeaders adds HTTP headers sent with every API request.
//
// Accepts variadic key-value pairs. The number of arguments must be even.
// Can be called multiple times; later values override earlier ones.
//
// Example:
//
//	db, err := discoveryboard.New(
//	    discoveryboard.WithBaseURL(url),
//	    discoveryboard.WithHeaders("Authorization", "Bearer token123"),
//	)
//
// Returns an error if an odd number of arguments is provided.
func WithHeaders(keyValues ...string) Option {
	return func(cfg *dbConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			if keyValues[i] == "" {
				return errors.New("header name cannot be empty")
			}
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithRequestTimeout sets the timeout for each API request.
//
// A request that does not complete in time fails as a network error and the
// affected panel keeps its previous data. Defaults to 10 seconds.
//
// Returns an error if the duration is zero or negative.
func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *dbConfig) error {
		if d <= 0 {
			return errors.New("request timeout must be positive")
		}
		cfg.requestTimeout = d
		return nil
	}
}

// WithPollingInterval sets how often the view is refreshed.
//
// Each refresh fetches candidates and trials concurrently. A refresh that
// takes longer than the interval delays the next one; refreshes never
// overlap. Defaults to 30 seconds if not specified.
//
// Returns an error if the duration is zero or negative.
func WithPollingInterval(d time.Duration) Option {
	return func(cfg *dbConfig) error {
		if d <= 0 {
			return errors.New("polling interval must be positive")
		}
		cfg.pollingInterval = d
		return nil
	}
}

// WithPort sets the HTTP port for the dashboard server.
//
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *dbConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. If not specified, [slog.Default]
// is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *dbConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithViewCallback registers a function to be called after every view state
// change.
//
// The callback receives a copy of the full [ViewState]. Multiple callbacks
// may be registered; they execute in registration order.
//
// IMPORTANT: Callbacks must be non-blocking. They run on a single goroutine
// fed by a buffered subscription, so a slow callback may miss intermediate
// states. Panics within callbacks are recovered and logged.
//
// Example:
//
//	db, err := discoveryboard.New(
//	    discoveryboard.WithBaseURL(url),
//	    discoveryboard.WithViewCallback(func(state discoveryboard.ViewState) {
//	        if state.TrialsError != nil {
//	            log.Printf("trials stale: %s", *state.TrialsError)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithViewCallback(cb func(ViewState)) Option {
	return func(cfg *dbConfig) error {
		if cb == nil {
			return nil
		}
		cfg.viewCallbacks = append(cfg.viewCallbacks, cb)
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "Drug Development Platform".
func WithTitle(title string) Option {
	return func(cfg *dbConfig) error {
		cfg.title = title
		return nil
	}
}
