package store

import (
	"time"

	"github.com/jpalmerr/discoveryboard/model"
)

// Store defines the interface for holding the dashboard [model.ViewState]
// and subscribing to its changes.
//
// Store implementations must be safe for concurrent access. Every mutation
// publishes a full snapshot to subscribers so that the dashboard server can
// push it to connected clients (SSE and WebSocket).
type Store interface {
	// Activate marks the view as ready for first paint and loading.
	// Calling Activate again has no effect.
	Activate()

	// SetCandidates replaces the candidate collection wholesale and clears
	// any previous candidate error.
	SetCandidates(candidates []model.DrugCandidate, at time.Time)

	// SetTrials replaces the trial collection wholesale and clears any
	// previous trial error.
	SetTrials(trials []model.ClinicalTrial, at time.Time)

	// SetError records a failed fetch for one resource. The resource's
	// collection is left untouched.
	SetError(resource model.Resource, err error)

	// MarkLoaded clears the loading flag. It returns true only for the call
	// that performed the transition.
	MarkLoaded() bool

	// Snapshot returns a deep copy of the current view state.
	Snapshot() model.ViewState

	// Subscribe returns a channel that receives a snapshot after every change.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan model.ViewState

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan model.ViewState)
}
