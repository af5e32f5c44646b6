package config

import (
	"sort"

	"github.com/jpalmerr/discoveryboard"
)

// BuildOptions converts parsed configuration into SDK options.
//
// Port, poll interval and base URL are always set; everything else only when
// present in the file, so SDK defaults apply otherwise. Callers append their
// own options (such as [discoveryboard.WithLogger]) to the result.
func BuildOptions(cfg *Config) []discoveryboard.Option {
	opts := []discoveryboard.Option{
		discoveryboard.WithBaseURL(cfg.API.BaseURL),
		discoveryboard.WithPort(cfg.Port),
		discoveryboard.WithPollingInterval(cfg.PollInterval.Duration()),
	}

	if cfg.Title != "" {
		opts = append(opts, discoveryboard.WithTitle(cfg.Title))
	}

	if cfg.API.Timeout != 0 {
		opts = append(opts, discoveryboard.WithRequestTimeout(cfg.API.Timeout.Duration()))
	}

	if cfg.API.CandidatesPath != "" {
		opts = append(opts, discoveryboard.WithCandidatesPath(cfg.API.CandidatesPath))
	}

	if cfg.API.TrialsPath != "" {
		opts = append(opts, discoveryboard.WithTrialsPath(cfg.API.TrialsPath))
	}

	if len(cfg.API.Headers) > 0 {
		opts = append(opts, discoveryboard.WithHeaders(mapToKeyValuePairs(cfg.API.Headers)...))
	}

	return opts
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
