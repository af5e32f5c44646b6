package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrugCandidate_Validate(t *testing.T) {
	assert.ErrorIs(t, DrugCandidate{}.Validate(), ErrMissingID)
	assert.NoError(t, DrugCandidate{ID: "C1"}.Validate())
}

func TestDrugCandidate_ScoreWarnings(t *testing.T) {
	tests := []struct {
		name      string
		candidate DrugCandidate
		want      int
	}{
		{"in range", DrugCandidate{ID: "C1", PredictedEfficacy: 0.82, PredictedSafety: 0.9}, 0},
		{"bounds inclusive", DrugCandidate{ID: "C1", PredictedEfficacy: 0, PredictedSafety: 1}, 0},
		{"efficacy above 1", DrugCandidate{ID: "C1", PredictedEfficacy: 82, PredictedSafety: 0.9}, 1},
		{"both negative", DrugCandidate{ID: "C1", PredictedEfficacy: -0.1, PredictedSafety: -1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.candidate.ScoreWarnings(), tt.want)
		})
	}
}

func TestKnownEnums(t *testing.T) {
	assert.True(t, MoleculeAntibody.Known())
	assert.False(t, MoleculeType("aptamer").Known())
	assert.True(t, TrialRecruiting.Known())
	assert.False(t, TrialStatus("paused").Known())
}

func TestClinicalTrial_OverEnrolled(t *testing.T) {
	assert.False(t, ClinicalTrial{TrialID: "T1", ParticipantCount: 120, TargetParticipantCount: 200}.OverEnrolled())
	assert.True(t, ClinicalTrial{TrialID: "T1", ParticipantCount: 210, TargetParticipantCount: 200}.OverEnrolled())
	// no target means nothing to compare against
	assert.False(t, ClinicalTrial{TrialID: "T1", ParticipantCount: 5}.OverEnrolled())
}

func TestViewState_CloneIsDeep(t *testing.T) {
	msg := "boom"
	orig := ViewState{
		Candidates: []DrugCandidate{{ID: "C1", TargetProteins: []string{"EGFR"}}},
		Trials: []ClinicalTrial{{
			TrialID:         "T1",
			RealTimeMetrics: RealTimeMetrics{SafetySignals: []string{"AE-1"}},
		}},
		CandidatesError: &msg,
	}

	cp := orig.Clone()
	cp.Candidates[0].ID = "changed"
	cp.Candidates[0].TargetProteins[0] = "HER2"
	cp.Trials[0].RealTimeMetrics.SafetySignals[0] = "AE-2"
	*cp.CandidatesError = "other"

	require.Len(t, orig.Candidates, 1)
	assert.Equal(t, "C1", orig.Candidates[0].ID)
	assert.Equal(t, "EGFR", orig.Candidates[0].TargetProteins[0])
	assert.Equal(t, "AE-1", orig.Trials[0].RealTimeMetrics.SafetySignals[0])
	assert.Equal(t, "boom", *orig.CandidatesError)
}

func TestViewState_CloneKeepsNil(t *testing.T) {
	cp := ViewState{}.Clone()
	assert.Nil(t, cp.Candidates)
	assert.Nil(t, cp.Trials)
	assert.Nil(t, cp.TrialsError)
}
