package model

// TrialStatus is the recruitment/execution state of a clinical trial.
type TrialStatus string

const (
	TrialPlanned    TrialStatus = "planned"
	TrialRecruiting TrialStatus = "recruiting"
	TrialActive     TrialStatus = "active"
	TrialSuspended  TrialStatus = "suspended"
	TrialCompleted  TrialStatus = "completed"
	TrialTerminated TrialStatus = "terminated"
)

// Known reports whether s is one of the predefined trial statuses.
func (s TrialStatus) Known() bool {
	switch s {
	case TrialPlanned, TrialRecruiting, TrialActive, TrialSuspended, TrialCompleted, TrialTerminated:
		return true
	default:
		return false
	}
}

// RealTimeMetrics are the live monitoring figures attached to a trial.
type RealTimeMetrics struct {
	EnrollmentRate float64 `json:"enrollment_rate"`
	RetentionRate  float64 `json:"retention_rate"`

	// SafetySignals is ordered as reported by the monitoring service.
	SafetySignals []string `json:"safety_signals"`
}

// ClinicalTrial is a snapshot of one monitored clinical trial.
//
// ParticipantCount is expected to be at most TargetParticipantCount, but the
// monitoring service does not guarantee it and it is not enforced here.
type ClinicalTrial struct {
	TrialID                string          `json:"trial_id"`
	DrugCandidateID        string          `json:"drug_candidate_id,omitempty"`
	Phase                  string          `json:"phase"`
	Status                 TrialStatus     `json:"status"`
	ParticipantCount       int             `json:"participant_count"`
	TargetParticipantCount int             `json:"target_participant_count"`
	RealTimeMetrics        RealTimeMetrics `json:"real_time_metrics"`
}

// Validate checks the hard requirements for displaying a trial.
func (t ClinicalTrial) Validate() error {
	if t.TrialID == "" {
		return ErrMissingID
	}
	return nil
}

// OverEnrolled reports whether more participants are enrolled than targeted.
func (t ClinicalTrial) OverEnrolled() bool {
	return t.TargetParticipantCount > 0 && t.ParticipantCount > t.TargetParticipantCount
}
