package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmerr/discoveryboard/model"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const candidatesJSON = `[
  {"id": "DRUG-2024-001", "molecule_type": "small_molecule", "therapeutic_area": "oncology",
   "predicted_efficacy": 0.85, "predicted_safety": 0.92, "development_stage": "preclinical",
   "target_proteins": ["EGFR", "HER2"]},
  {"id": "DRUG-2024-002", "molecule_type": "antibody", "therapeutic_area": "immunology",
   "predicted_efficacy": 0.71, "predicted_safety": 0.88, "development_stage": "phase_1"}
]`

const trialsJSON = `[
  {"trial_id": "CT-2024-001", "phase": "phase_2", "status": "active",
   "participant_count": 120, "target_participant_count": 200,
   "real_time_metrics": {"enrollment_rate": 0.6, "retention_rate": 0.92, "safety_signals": ["AE-12", "AE-3"]}}
]`

func newAPIServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, h := range handlers {
		mux.HandleFunc(path, h)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func TestAPISource_FetchCandidates(t *testing.T) {
	server := newAPIServer(t, map[string]http.HandlerFunc{
		DefaultCandidatesPath: jsonHandler(candidatesJSON),
	})

	src := NewAPISource(APIConfig{BaseURL: server.URL}, testLogger())
	defer src.Close()

	candidates, err := src.FetchCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "DRUG-2024-001", candidates[0].ID)
	assert.Equal(t, model.MoleculeSmall, candidates[0].MoleculeType)
	assert.InDelta(t, 0.85, candidates[0].PredictedEfficacy, 1e-9)
	assert.Equal(t, []string{"EGFR", "HER2"}, candidates[0].TargetProteins)
	assert.Equal(t, "phase_1", candidates[1].DevelopmentStage)
}

func TestAPISource_FetchTrials(t *testing.T) {
	server := newAPIServer(t, map[string]http.HandlerFunc{
		DefaultTrialsPath: jsonHandler(trialsJSON),
	})

	src := NewAPISource(APIConfig{BaseURL: server.URL + "/"}, testLogger())
	trials, err := src.FetchTrials(context.Background())
	require.NoError(t, err)
	require.Len(t, trials, 1)

	tr := trials[0]
	assert.Equal(t, "CT-2024-001", tr.TrialID)
	assert.Equal(t, model.TrialActive, tr.Status)
	assert.Equal(t, 120, tr.ParticipantCount)
	assert.Equal(t, 200, tr.TargetParticipantCount)
	// signal order is preserved
	assert.Equal(t, []string{"AE-12", "AE-3"}, tr.RealTimeMetrics.SafetySignals)
}

func TestAPISource_SingleObjectIsOneElement(t *testing.T) {
	server := newAPIServer(t, map[string]http.HandlerFunc{
		DefaultTrialsPath: jsonHandler(`{"trial_id": "CT-9", "phase": "phase_3", "status": "recruiting"}`),
	})

	trials, err := NewAPISource(APIConfig{BaseURL: server.URL}, testLogger()).FetchTrials(context.Background())
	require.NoError(t, err)
	require.Len(t, trials, 1)
	assert.Equal(t, "CT-9", trials[0].TrialID)
}

func TestAPISource_CustomPathsAndHeaders(t *testing.T) {
	var gotHeader string
	server := newAPIServer(t, map[string]http.HandlerFunc{
		"/v2/candidates": func(w http.ResponseWriter, r *http.Request) {
			gotHeader = r.Header.Get("X-Tenant")
			_, _ = io.WriteString(w, "[]")
		},
	})

	src := NewAPISource(APIConfig{
		BaseURL:        server.URL,
		CandidatesPath: "v2/candidates",
		Headers:        map[string]string{"X-Tenant": "lab-1"},
	}, testLogger())

	assert.Equal(t, server.URL+"/v2/candidates", src.CandidatesURL())
	assert.Equal(t, server.URL+DefaultTrialsPath, src.TrialsURL())

	candidates, err := src.FetchCandidates(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, candidates)
	assert.Empty(t, candidates)
	assert.Equal(t, "lab-1", gotHeader)
}

func TestAPISource_StatusErrorIsNetworkError(t *testing.T) {
	server := newAPIServer(t, map[string]http.HandlerFunc{
		DefaultTrialsPath: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail": "Trial not found"}`, http.StatusNotFound)
		},
	})

	_, err := NewAPISource(APIConfig{BaseURL: server.URL}, testLogger()).FetchTrials(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrParse)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Equal(t, model.ResourceTrials, fe.Resource)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestAPISource_UnsetBaseURLIsNetworkError(t *testing.T) {
	src := NewAPISource(APIConfig{}, testLogger())

	_, err := src.FetchCandidates(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestAPISource_TimeoutIsNetworkError(t *testing.T) {
	server := newAPIServer(t, map[string]http.HandlerFunc{
		DefaultCandidatesPath: func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		},
	})

	src := NewAPISource(APIConfig{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, testLogger())
	_, err := src.FetchCandidates(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestAPISource_MalformedPayloadIsParseError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"html", "<html>Bad Gateway</html>"},
		{"truncated array", `[{"id": "C1"`},
		{"null", "null"},
		{"empty", ""},
		{"number", "42"},
		{"truncated object", `{"id":"C2",`},
		{"error object without id", `{"detail":"upstream error"}`},
		{"array of numbers", `[1,2,3]`},
		{"array of strings", `["x"]`},
		{"array with null element", `[{"id": "C1"}, null]`},
		{"array of objects without ids", `[{"detail": "a"}, {"detail": "b"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newAPIServer(t, map[string]http.HandlerFunc{
				DefaultCandidatesPath: jsonHandler(tt.body),
			})

			_, err := NewAPISource(APIConfig{BaseURL: server.URL}, testLogger()).FetchCandidates(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestAPISource_OversizedBodyIsParseError(t *testing.T) {
	server := newAPIServer(t, map[string]http.HandlerFunc{
		DefaultCandidatesPath: func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "["+strings.Repeat(" ", maxResponseBodySize)+"]")
		},
	})

	_, err := NewAPISource(APIConfig{BaseURL: server.URL}, testLogger()).FetchCandidates(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "exceeds 1MB")
}

func TestDecodeCollection_SkipsBadItems(t *testing.T) {
	body := []byte(`[
		{"id": "C1", "predicted_efficacy": 0.5},
		{"therapeutic_area": "no id"},
		{"id": "C1", "predicted_efficacy": 0.9},
		{"id": 7},
		{"id": "C2"}
	]`)

	items, skipped, err := decodeCollection(body, func(c model.DrugCandidate) string { return c.ID })
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "C1", items[0].ID)
	// first occurrence wins for duplicate ids
	assert.InDelta(t, 0.5, items[0].PredictedEfficacy, 1e-9)
	assert.Equal(t, "C2", items[1].ID)
	assert.Len(t, skipped, 3)
}

func TestDecodeCollection_EmptyArrayIsValid(t *testing.T) {
	items, skipped, err := decodeCollection([]byte(` [ ] `), func(c model.DrugCandidate) string { return c.ID })
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Empty(t, skipped)
}

func TestFetchError_Message(t *testing.T) {
	err := &FetchError{Resource: model.ResourceCandidates, Kind: ErrParse, Err: errors.New("expected JSON array")}
	assert.Equal(t, "candidates: parse error: expected JSON array", err.Error())
	assert.ErrorIs(t, err, ErrParse)
}
