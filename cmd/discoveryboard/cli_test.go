package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpalmerr/discoveryboard"
)

// executeCmd runs the root command with the given args and returns captured
// stdout and any error.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeConfig writes content to a temp config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// newResearchAPI serves fixed candidate and trial bodies. An empty body
// answers 503.
func newResearchAPI(t *testing.T, candidates, trials string) *httptest.Server {
	t.Helper()
	respond := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if body == "" {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/molecular-design/candidates", respond(candidates))
	mux.HandleFunc("/clinical-trials/monitor", respond(trials))
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestRunValidate_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
port: 8080
poll_interval: 10s
api:
  base_url: http://research.internal:8000
  trials_path: /v2/trials
`)

	output, err := executeCmd(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"Port:          8080",
		"Poll interval: 10s",
		"Candidates:    http://research.internal:8000/molecular-design/candidates",
		"Trials:        http://research.internal:8000/v2/trials",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeConfig(t, `
port: 8080
api:
  base_url: ftp://research.internal
`)

	_, err := executeCmd(t, "validate", "-c", configPath)
	if err == nil {
		t.Fatal("validate command expected error for invalid config, got nil")
	}

	if !strings.Contains(err.Error(), "http or https") {
		t.Errorf("error should mention scheme, got: %v", err)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, err := executeCmd(t, "validate", "-c", "/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("validate command expected error for missing file, got nil")
	}

	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error should mention 'failed to read', got: %v", err)
	}
}

func TestRunSnapshot_Text(t *testing.T) {
	api := newResearchAPI(t,
		`[{"id": "DRUG-001", "therapeutic_area": "oncology", "molecule_type": "small_molecule",
		   "predicted_efficacy": 0.82, "predicted_safety": 0.91, "development_stage": "lead"}]`,
		"",
	)
	configPath := writeConfig(t, "title: Oncology\napi:\n  base_url: "+api.URL+"\n")

	output, err := executeCmd(t, "snapshot", "-c", configPath, "--format", "text")
	if err != nil {
		t.Fatalf("snapshot command error = %v", err)
	}

	for _, phrase := range []string{
		"Oncology",
		"MOLECULAR DESIGN",
		"DRUG-001",
		"82.0%",
		"91.0%",
		"CLINICAL TRIALS",
		"No active trials available",
		"! ",
	} {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunSnapshot_JSON(t *testing.T) {
	api := newResearchAPI(t, `[]`, `[{"trial_id": "CT-7", "status": "active", "participant_count": 10, "target_participant_count": 50}]`)
	configPath := writeConfig(t, "api:\n  base_url: "+api.URL+"\n")

	output, err := executeCmd(t, "snapshot", "-c", configPath, "--format", "json")
	if err != nil {
		t.Fatalf("snapshot command error = %v", err)
	}

	var state discoveryboard.ViewState
	if err := json.Unmarshal([]byte(output), &state); err != nil {
		t.Fatalf("output is not a view state: %v\n%s", err, output)
	}
	if !state.Ready || state.Loading {
		t.Errorf("ready=%v loading=%v", state.Ready, state.Loading)
	}
	if len(state.Trials) != 1 || state.Trials[0].TrialID != "CT-7" {
		t.Errorf("trials = %+v", state.Trials)
	}
	if len(state.Candidates) != 0 {
		t.Errorf("candidates = %+v, want none", state.Candidates)
	}
}

func TestRunSnapshot_UnknownFormat(t *testing.T) {
	configPath := writeConfig(t, "api:\n  base_url: http://localhost:8000\n")

	_, err := executeCmd(t, "snapshot", "-c", configPath, "--format", "xml")
	if err == nil {
		t.Fatal("snapshot command expected error for unknown format, got nil")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("error = %v", err)
	}
}

func TestVersion(t *testing.T) {
	output, err := executeCmd(t, "version")
	if err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if !strings.HasPrefix(output, "discoveryboard dev") {
		t.Errorf("output = %q", output)
	}
}
