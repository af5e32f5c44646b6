package discoveryboard

import "github.com/jpalmerr/discoveryboard/model"

// Re-exported domain types, so library users need a single import.
type (
	ViewState       = model.ViewState
	DrugCandidate   = model.DrugCandidate
	ClinicalTrial   = model.ClinicalTrial
	RealTimeMetrics = model.RealTimeMetrics
	MoleculeType    = model.MoleculeType
	TrialStatus     = model.TrialStatus
)
