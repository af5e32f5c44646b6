package model

import "time"

// Resource names one of the two collections kept in a [ViewState].
type Resource string

const (
	ResourceCandidates Resource = "candidates"
	ResourceTrials     Resource = "trials"
)

// ViewState is the dashboard's local copy of the remote research data.
//
// Each collection holds the result of the most recent successful fetch for
// that resource. A failed fetch only records LastError for the affected
// resource; the previously fetched collection stays in place.
type ViewState struct {
	Candidates []DrugCandidate `json:"candidates"`
	Trials     []ClinicalTrial `json:"trials"`

	// Loading is true from activation until the first refresh cycle settles.
	Loading bool `json:"loading"`

	// Ready gates first paint; it is set when the view is activated.
	Ready bool `json:"ready"`

	CandidatesUpdatedAt time.Time `json:"candidates_updated_at,omitzero"`
	TrialsUpdatedAt     time.Time `json:"trials_updated_at,omitzero"`

	// CandidatesError and TrialsError hold the last fetch error per resource,
	// cleared by the next successful fetch of that resource.
	CandidatesError *string `json:"candidates_error"`
	TrialsError     *string `json:"trials_error"`
}

// Clone returns a deep copy of the view state.
func (v ViewState) Clone() ViewState {
	cp := v
	if v.Candidates != nil {
		cp.Candidates = make([]DrugCandidate, len(v.Candidates))
		for i, c := range v.Candidates {
			c.TargetProteins = copyStrings(c.TargetProteins)
			c.SideEffects = copyStrings(c.SideEffects)
			cp.Candidates[i] = c
		}
	}
	if v.Trials != nil {
		cp.Trials = make([]ClinicalTrial, len(v.Trials))
		for i, t := range v.Trials {
			t.RealTimeMetrics.SafetySignals = copyStrings(t.RealTimeMetrics.SafetySignals)
			cp.Trials[i] = t
		}
	}
	cp.CandidatesError = copyStringPtr(v.CandidatesError)
	cp.TrialsError = copyStringPtr(v.TrialsError)
	return cp
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func copyStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}
