package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jpalmerr/discoveryboard/model"
)

// Default API paths of the research service.
const (
	DefaultCandidatesPath = "/molecular-design/candidates"
	DefaultTrialsPath     = "/clinical-trials/monitor"
	DefaultRequestTimeout = 10 * time.Second
)

// Source fetches the two resource collections shown on the dashboard.
//
// Implementations must honour ctx cancellation where they can; results that
// arrive after the [Syncer] has stopped are discarded regardless.
type Source interface {
	FetchCandidates(ctx context.Context) ([]model.DrugCandidate, error)
	FetchTrials(ctx context.Context) ([]model.ClinicalTrial, error)
}

// APIConfig configures an [APISource].
type APIConfig struct {
	// BaseURL is prepended to both paths. An empty or malformed base URL is
	// not special-cased: every request fails with a network error.
	BaseURL string

	// CandidatesPath defaults to [DefaultCandidatesPath].
	CandidatesPath string

	// TrialsPath defaults to [DefaultTrialsPath].
	TrialsPath string

	// Headers are sent with every request.
	Headers map[string]string

	// Timeout is the per-request timeout. Defaults to [DefaultRequestTimeout].
	Timeout time.Duration
}

// APISource is the HTTP [Source] backed by the research API.
type APISource struct {
	cfg    APIConfig
	client *Client
	logger *slog.Logger
}

// NewAPISource creates an [APISource], filling in defaults for empty fields.
func NewAPISource(cfg APIConfig, logger *slog.Logger) *APISource {
	if cfg.CandidatesPath == "" {
		cfg.CandidatesPath = DefaultCandidatesPath
	}
	if cfg.TrialsPath == "" {
		cfg.TrialsPath = DefaultTrialsPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRequestTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &APISource{
		cfg:    cfg,
		client: NewClient(),
		logger: logger,
	}
}

// CandidatesURL returns the full URL polled for drug candidates.
func (a *APISource) CandidatesURL() string {
	return joinURL(a.cfg.BaseURL, a.cfg.CandidatesPath)
}

// TrialsURL returns the full URL polled for clinical trials.
func (a *APISource) TrialsURL() string {
	return joinURL(a.cfg.BaseURL, a.cfg.TrialsPath)
}

// FetchCandidates implements [Source].
func (a *APISource) FetchCandidates(ctx context.Context) ([]model.DrugCandidate, error) {
	body, err := a.get(ctx, model.ResourceCandidates, a.CandidatesURL())
	if err != nil {
		return nil, err
	}

	candidates, skipped, err := decodeCollection(body, func(c model.DrugCandidate) string { return c.ID })
	if err != nil {
		return nil, &FetchError{Resource: model.ResourceCandidates, Kind: ErrParse, Err: err}
	}
	a.logSkipped(model.ResourceCandidates, skipped)

	for _, c := range candidates {
		for _, w := range c.ScoreWarnings() {
			a.logger.Warn("candidate score out of range", "candidate_id", c.ID, "detail", w)
		}
	}
	return candidates, nil
}

// FetchTrials implements [Source].
func (a *APISource) FetchTrials(ctx context.Context) ([]model.ClinicalTrial, error) {
	body, err := a.get(ctx, model.ResourceTrials, a.TrialsURL())
	if err != nil {
		return nil, err
	}

	trials, skipped, err := decodeCollection(body, func(t model.ClinicalTrial) string { return t.TrialID })
	if err != nil {
		return nil, &FetchError{Resource: model.ResourceTrials, Kind: ErrParse, Err: err}
	}
	a.logSkipped(model.ResourceTrials, skipped)

	for _, t := range trials {
		if t.Status != "" && !t.Status.Known() {
			a.logger.Debug("trial has unrecognised status", "trial_id", t.TrialID, "status", string(t.Status))
		}
	}
	return trials, nil
}

// Close releases idle connections held by the underlying client.
func (a *APISource) Close() {
	a.client.Close()
}

func (a *APISource) get(ctx context.Context, resource model.Resource, url string) ([]byte, error) {
	resp := a.client.Get(ctx, url, a.cfg.Headers, a.cfg.Timeout)
	// an oversized 2xx body arrived intact but cannot be used
	if errors.Is(resp.Error, errBodyTooLarge) && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil, &FetchError{Resource: resource, Kind: ErrParse, StatusCode: resp.StatusCode, Err: resp.Error}
	}
	if resp.Error != nil {
		return nil, &FetchError{Resource: resource, Kind: ErrNetwork, StatusCode: resp.StatusCode, Err: resp.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Resource: resource, Kind: ErrNetwork, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

func (a *APISource) logSkipped(resource model.Resource, skipped []string) {
	for _, reason := range skipped {
		a.logger.Warn("skipped malformed item", "resource", string(resource), "reason", reason)
	}
}

// validatable is satisfied by the model entities.
type validatable interface {
	Validate() error
}

// decodeCollection decodes a JSON array of entities, best-effort.
//
// A single JSON object is accepted as a one-element collection and must
// decode and validate. Array elements must be objects. Objects that do not
// decode, fail validation, or repeat an earlier id are skipped and described
// in the returned slice, but a non-empty array where every element was
// skipped is an error. The returned collection is never nil on success.
func decodeCollection[T validatable](body []byte, id func(T) string) ([]T, []string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil, errors.New("empty body")
	}

	switch trimmed[0] {
	case '[':
	case '{':
		var item T
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return nil, nil, fmt.Errorf("invalid JSON object: %w", err)
		}
		if err := item.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid object %q: %w", preview(trimmed), err)
		}
		return []T{item}, nil, nil
	default:
		return nil, nil, fmt.Errorf("expected JSON array or object, got %q", preview(trimmed))
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON array: %w", err)
	}

	items := make([]T, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	var skipped []string

	for i, r := range raw {
		if elem := bytes.TrimSpace(r); len(elem) == 0 || elem[0] != '{' {
			return nil, nil, fmt.Errorf("item %d: expected JSON object, got %q", i, preview(elem))
		}

		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			skipped = append(skipped, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		if err := item.Validate(); err != nil {
			skipped = append(skipped, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		key := id(item)
		if _, dup := seen[key]; dup {
			skipped = append(skipped, fmt.Sprintf("item %d: duplicate id %q", i, key))
			continue
		}
		seen[key] = struct{}{}
		items = append(items, item)
	}

	if len(raw) > 0 && len(items) == 0 {
		return nil, nil, fmt.Errorf("no valid items among %d: %s", len(raw), skipped[0])
	}

	return items, skipped, nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// preview shortens a body for inclusion in an error message.
func preview(b []byte) string {
	const limit = 32
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
