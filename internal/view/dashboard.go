package view

import (
	"fmt"
	"time"

	"github.com/jpalmerr/discoveryboard/model"
)

// MaxRows is the number of rows shown per panel.
const MaxRows = 3

// Placeholders shown when a loaded panel has nothing to display.
const (
	NoCandidatesText = "No drug candidates available"
	NoTrialsText     = "No active trials available"
)

// DefaultTitle is used when no dashboard title is configured.
const DefaultTitle = "Drug Development Platform"

// Dashboard is the render-ready form of a [model.ViewState].
type Dashboard struct {
	Title   string
	Ready   bool
	Loading bool

	Candidates CandidatePanel
	Trials     TrialPanel
}

// CandidatePanel is the "Molecular Design" panel.
type CandidatePanel struct {
	Rows []CandidateRow

	// Total is the size of the full collection; Rows holds at most MaxRows.
	Total int

	// Placeholder is set when the panel is loaded but empty.
	Placeholder string

	// Error is the last fetch error, shown as a stale-data hint.
	Error string

	UpdatedAt string
}

// CandidateRow is one drug candidate line.
type CandidateRow struct {
	ID              string
	TherapeuticArea string
	MoleculeType    string
	Stage           string
	Efficacy        string
	Safety          string
	SMILES          string
}

// TrialPanel is the "Clinical Trials" panel.
type TrialPanel struct {
	Rows        []TrialRow
	Total       int
	Placeholder string
	Error       string
	UpdatedAt   string
}

// TrialRow is one clinical trial line.
type TrialRow struct {
	ID     string
	Phase  string
	Status string

	// Tone is the badge colour for the status: green, yellow, blue or neutral.
	Tone string

	Enrollment    string
	OverEnrolled  bool
	SafetySignals int
}

// Build turns a view state into a [Dashboard].
//
// While the state is loading, panels carry no rows and no placeholder; the
// template shows a loading indicator instead. Once loaded, an empty
// collection yields the panel's placeholder text.
func Build(title string, state model.ViewState) Dashboard {
	if title == "" {
		title = DefaultTitle
	}

	d := Dashboard{
		Title:   title,
		Ready:   state.Ready,
		Loading: state.Loading,
		Candidates: CandidatePanel{
			Total:     len(state.Candidates),
			Error:     derefString(state.CandidatesError),
			UpdatedAt: formatTime(state.CandidatesUpdatedAt),
		},
		Trials: TrialPanel{
			Total:     len(state.Trials),
			Error:     derefString(state.TrialsError),
			UpdatedAt: formatTime(state.TrialsUpdatedAt),
		},
	}

	if state.Loading {
		return d
	}

	for _, c := range head(state.Candidates) {
		d.Candidates.Rows = append(d.Candidates.Rows, CandidateRow{
			ID:              c.ID,
			TherapeuticArea: c.TherapeuticArea,
			MoleculeType:    string(c.MoleculeType),
			Stage:           c.DevelopmentStage,
			Efficacy:        FormatPercent(c.PredictedEfficacy),
			Safety:          FormatPercent(c.PredictedSafety),
			SMILES:          c.SMILES,
		})
	}
	if len(d.Candidates.Rows) == 0 {
		d.Candidates.Placeholder = NoCandidatesText
	}

	for _, t := range head(state.Trials) {
		d.Trials.Rows = append(d.Trials.Rows, TrialRow{
			ID:            t.TrialID,
			Phase:         t.Phase,
			Status:        string(t.Status),
			Tone:          StatusTone(t.Status),
			Enrollment:    fmt.Sprintf("%d/%d", t.ParticipantCount, t.TargetParticipantCount),
			OverEnrolled:  t.OverEnrolled(),
			SafetySignals: len(t.RealTimeMetrics.SafetySignals),
		})
	}
	if len(d.Trials.Rows) == 0 {
		d.Trials.Placeholder = NoTrialsText
	}

	return d
}

// FormatPercent renders a [0,1] score as a percentage with one decimal.
func FormatPercent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// StatusTone maps a trial status to its badge colour.
func StatusTone(s model.TrialStatus) string {
	switch s {
	case model.TrialActive:
		return "green"
	case model.TrialRecruiting:
		return "yellow"
	case model.TrialCompleted:
		return "blue"
	default:
		return "neutral"
	}
}

func head[T any](items []T) []T {
	if len(items) > MaxRows {
		return items[:MaxRows]
	}
	return items
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
