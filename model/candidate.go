package model

import (
	"errors"
	"fmt"
)

// MoleculeType classifies a drug candidate's molecular modality.
type MoleculeType string

const (
	MoleculeSmall    MoleculeType = "small_molecule"
	MoleculeBiologic MoleculeType = "biologic"
	MoleculePeptide  MoleculeType = "peptide"
	MoleculeAntibody MoleculeType = "antibody"
)

// Known reports whether t is one of the predefined molecule types.
// Unknown types are still accepted from the API; this is only used for logging.
func (t MoleculeType) Known() bool {
	switch t {
	case MoleculeSmall, MoleculeBiologic, MoleculePeptide, MoleculeAntibody:
		return true
	default:
		return false
	}
}

// DrugCandidate is a snapshot of one AI-designed drug candidate as reported by
// the molecular design service.
//
// Candidates are replaced wholesale on every refresh; nothing in this module
// mutates a DrugCandidate after it has been decoded.
type DrugCandidate struct {
	ID                string       `json:"id"`
	MoleculeType      MoleculeType `json:"molecule_type"`
	TherapeuticArea   string       `json:"therapeutic_area"`
	PredictedEfficacy float64      `json:"predicted_efficacy"`
	PredictedSafety   float64      `json:"predicted_safety"`
	DevelopmentStage  string       `json:"development_stage"`

	// optional fields, carried through when the API includes them
	MolecularWeight float64  `json:"molecular_weight,omitempty"`
	TargetProteins  []string `json:"target_proteins,omitempty"`
	SideEffects     []string `json:"side_effects,omitempty"`
	AIConfidence    float64  `json:"ai_confidence,omitempty"`
	SMILES          string   `json:"smiles,omitempty"`
}

// ErrMissingID is returned by Validate when an entity has no identifier.
var ErrMissingID = errors.New("missing id")

// Validate checks the hard requirements for displaying a candidate.
//
// Only a missing id is an error. Scores outside [0,1] are reported by
// [DrugCandidate.ScoreWarnings] instead, since the dashboard can still show them.
func (c DrugCandidate) Validate() error {
	if c.ID == "" {
		return ErrMissingID
	}
	return nil
}

// ScoreWarnings returns a description of each predicted score outside [0,1].
func (c DrugCandidate) ScoreWarnings() []string {
	var warnings []string
	if !inUnitRange(c.PredictedEfficacy) {
		warnings = append(warnings, fmt.Sprintf("predicted_efficacy %v outside [0,1]", c.PredictedEfficacy))
	}
	if !inUnitRange(c.PredictedSafety) {
		warnings = append(warnings, fmt.Sprintf("predicted_safety %v outside [0,1]", c.PredictedSafety))
	}
	return warnings
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
