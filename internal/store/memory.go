package store

import (
	"sync"
	"time"

	"github.com/jpalmerr/discoveryboard/model"
)

const subscriberBuffer = 16

// MemoryStore is an in-memory implementation of [Store].
//
// MemoryStore owns a single [model.ViewState]. Readers only ever see deep
// copies, so a snapshot handed to a subscriber or an HTTP handler cannot be
// affected by later refreshes.
//
// Subscribers receive updates via buffered channels. Updates are sent
// non-blocking; if a subscriber's buffer is full, the snapshot is dropped for
// that subscriber. Because every message is a full snapshot, a dropped
// message is superseded by the next one.
type MemoryStore struct {
	mu    sync.RWMutex
	state model.ViewState

	subMu       sync.RWMutex
	subscribers map[chan model.ViewState]struct{}
}

// NewMemoryStore creates an empty, inactive [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subscribers: make(map[chan model.ViewState]struct{}),
	}
}

// Activate implements [Store].
func (m *MemoryStore) Activate() {
	m.mu.Lock()
	if m.state.Ready {
		m.mu.Unlock()
		return
	}
	m.state.Ready = true
	m.state.Loading = true
	snapshot := m.state.Clone()
	m.mu.Unlock()

	m.notifySubscribers(snapshot)
}

// SetCandidates implements [Store].
func (m *MemoryStore) SetCandidates(candidates []model.DrugCandidate, at time.Time) {
	m.mutate(func(s *model.ViewState) {
		s.Candidates = candidates
		s.CandidatesUpdatedAt = at
		s.CandidatesError = nil
	})
}

// SetTrials implements [Store].
func (m *MemoryStore) SetTrials(trials []model.ClinicalTrial, at time.Time) {
	m.mutate(func(s *model.ViewState) {
		s.Trials = trials
		s.TrialsUpdatedAt = at
		s.TrialsError = nil
	})
}

// SetError implements [Store].
func (m *MemoryStore) SetError(resource model.Resource, err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	m.mutate(func(s *model.ViewState) {
		switch resource {
		case model.ResourceCandidates:
			s.CandidatesError = &msg
		case model.ResourceTrials:
			s.TrialsError = &msg
		}
	})
}

// MarkLoaded implements [Store].
func (m *MemoryStore) MarkLoaded() bool {
	m.mu.Lock()
	if !m.state.Loading {
		m.mu.Unlock()
		return false
	}
	m.state.Loading = false
	snapshot := m.state.Clone()
	m.mu.Unlock()

	m.notifySubscribers(snapshot)
	return true
}

// Snapshot implements [Store]. The returned value is a deep copy.
func (m *MemoryStore) Snapshot() model.ViewState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Subscribe creates a new subscription and returns a channel for receiving
// snapshots.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan model.ViewState {
	ch := make(chan model.ViewState, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan model.ViewState) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	// find and delete the channel (need to convert to the right type)
	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// mutate applies fn under the write lock and publishes the resulting snapshot.
func (m *MemoryStore) mutate(fn func(s *model.ViewState)) {
	m.mu.Lock()
	fn(&m.state)
	snapshot := m.state.Clone()
	m.mu.Unlock()

	m.notifySubscribers(snapshot)
}

// notifySubscribers sends the snapshot to all active subscribers.
//
// This is non-blocking: if a subscriber's channel buffer is full, the message
// is dropped for that subscriber rather than blocking the refresh path.
func (m *MemoryStore) notifySubscribers(snapshot model.ViewState) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- snapshot:
		default:
			// subscriber is slow, drop the message
		}
	}
}
