// Package mockapi serves a fake research API for demos and manual testing.
//
// Candidate scores drift and trial enrollment grows between requests, and a
// configurable share of requests fail, so the dashboard's refresh and error
// paths are visible without a real backend.
package mockapi

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/jpalmerr/discoveryboard/model"
)

// Config controls the mock's behavior. The zero value never fails and adds
// no latency.
type Config struct {
	// FailureRate is the probability in [0,1] that a request answers 503.
	FailureRate float64

	// MinLatency and MaxLatency bound the random delay added to each request.
	MinLatency time.Duration
	MaxLatency time.Duration

	// Seed makes the generated data reproducible. Zero uses the clock.
	Seed int64
}

// Server holds the evolving mock data.
type Server struct {
	cfg    Config
	logger *slog.Logger

	mu         sync.Mutex
	rng        *rand.Rand
	candidates []model.DrugCandidate
	trials     []model.ClinicalTrial
}

// New creates a mock API seeded with a fixed research portfolio.
func New(cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Server{
		cfg:        cfg,
		logger:     logger,
		rng:        rand.New(rand.NewSource(seed)),
		candidates: seedCandidates(),
		trials:     seedTrials(),
	}
}

// Handler returns the HTTP handler serving both research endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/molecular-design/candidates", s.handleCandidates)
	mux.HandleFunc("/clinical-trials/monitor", s.handleTrials)
	return mux
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	if !s.admit(w, r) {
		return
	}

	s.mu.Lock()
	for i := range s.candidates {
		c := &s.candidates[i]
		c.PredictedEfficacy = drift(s.rng, c.PredictedEfficacy)
		c.PredictedSafety = drift(s.rng, c.PredictedSafety)
	}
	out := append([]model.DrugCandidate(nil), s.candidates...)
	s.mu.Unlock()

	writeJSON(w, out, s.logger)
}

func (s *Server) handleTrials(w http.ResponseWriter, r *http.Request) {
	if !s.admit(w, r) {
		return
	}

	s.mu.Lock()
	for i := range s.trials {
		t := &s.trials[i]
		if t.Status == model.TrialRecruiting || t.Status == model.TrialActive {
			t.ParticipantCount += s.rng.Intn(4)
		}
		if s.rng.Float64() < 0.05 {
			signal := "elevated liver enzymes"
			t.RealTimeMetrics.SafetySignals = append(t.RealTimeMetrics.SafetySignals, signal)
			s.logger.Info("safety signal raised", "trial", t.TrialID, "signal", signal)
		}
	}
	out := make([]model.ClinicalTrial, len(s.trials))
	for i, t := range s.trials {
		t.RealTimeMetrics.SafetySignals = append([]string(nil), t.RealTimeMetrics.SafetySignals...)
		out[i] = t
	}
	s.mu.Unlock()

	writeJSON(w, out, s.logger)
}

// admit applies latency and random failure. It reports whether the request
// should be answered normally.
func (s *Server) admit(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}

	s.mu.Lock()
	delay := s.cfg.MinLatency
	if span := s.cfg.MaxLatency - s.cfg.MinLatency; span > 0 {
		delay += time.Duration(s.rng.Int63n(int64(span)))
	}
	fail := s.rng.Float64() < s.cfg.FailureRate
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return false
		}
	}

	if fail {
		s.logger.Info("injected failure", "path", r.URL.Path)
		http.Error(w, "research service unavailable", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// drift nudges a score by up to ±2 points, clamped to [0,1].
func drift(rng *rand.Rand, v float64) float64 {
	v += (rng.Float64() - 0.5) * 0.04
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func writeJSON(w http.ResponseWriter, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}

func seedCandidates() []model.DrugCandidate {
	return []model.DrugCandidate{
		{
			ID:                "DRUG-001",
			MoleculeType:      model.MoleculeSmall,
			TherapeuticArea:   "oncology",
			PredictedEfficacy: 0.82,
			PredictedSafety:   0.91,
			DevelopmentStage:  "lead_optimization",
			MolecularWeight:   180.16,
			TargetProteins:    []string{"EGFR"},
			AIConfidence:      0.88,
			SMILES:            "CC(=O)OC1=CC=CC=C1C(=O)O",
		},
		{
			ID:                "DRUG-002",
			MoleculeType:      model.MoleculeAntibody,
			TherapeuticArea:   "immunology",
			PredictedEfficacy: 0.74,
			PredictedSafety:   0.86,
			DevelopmentStage:  "preclinical",
			TargetProteins:    []string{"IL-6R"},
			AIConfidence:      0.79,
		},
		{
			ID:                "DRUG-003",
			MoleculeType:      model.MoleculePeptide,
			TherapeuticArea:   "metabolic",
			PredictedEfficacy: 0.67,
			PredictedSafety:   0.93,
			DevelopmentStage:  "hit_to_lead",
			SMILES:            "CC(C)CC(N)C(=O)O",
		},
		{
			ID:                "DRUG-004",
			MoleculeType:      model.MoleculeSmall,
			TherapeuticArea:   "neurology",
			PredictedEfficacy: 0.58,
			PredictedSafety:   0.77,
			DevelopmentStage:  "discovery",
			SMILES:            "CN1C=NC2=C1C(=O)N(C(=O)N2C)C",
		},
	}
}

func seedTrials() []model.ClinicalTrial {
	return []model.ClinicalTrial{
		{
			TrialID:                "CT-2024-001",
			DrugCandidateID:        "DRUG-001",
			Phase:                  "Phase II",
			Status:                 model.TrialRecruiting,
			ParticipantCount:       120,
			TargetParticipantCount: 200,
			RealTimeMetrics:        model.RealTimeMetrics{EnrollmentRate: 4.2, RetentionRate: 0.96},
		},
		{
			TrialID:                "CT-2024-002",
			DrugCandidateID:        "DRUG-002",
			Phase:                  "Phase I",
			Status:                 model.TrialActive,
			ParticipantCount:       38,
			TargetParticipantCount: 40,
			RealTimeMetrics: model.RealTimeMetrics{
				EnrollmentRate: 1.1,
				RetentionRate:  0.92,
				SafetySignals:  []string{"injection site reaction"},
			},
		},
		{
			TrialID:                "CT-2023-017",
			Phase:                  "Phase III",
			Status:                 model.TrialCompleted,
			ParticipantCount:       812,
			TargetParticipantCount: 800,
			RealTimeMetrics:        model.RealTimeMetrics{RetentionRate: 0.89},
		},
		{
			TrialID:                "CT-2024-005",
			Phase:                  "Phase I",
			Status:                 model.TrialPlanned,
			TargetParticipantCount: 60,
		},
	}
}
