package search

import (
	"sync"
	"time"

	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// State is the progress of one provider within a search.
type State string

const (
	StatePending   State = "pending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// ProviderStatus is the externally visible state of one provider.
type ProviderStatus struct {
	Provider imagery.ProviderID `json:"provider"`
	State    State              `json:"state"`
	Count    int                `json:"count"`
	Reason   string             `json:"reason,omitempty"`

	// VisibleExpired is set once the status has been terminal for the
	// tracker's expiry. It is advisory: the status itself stays available.
	VisibleExpired bool `json:"visibleExpired"`

	finishedAt time.Time
}

// StatusTracker holds one status per launched provider. Transitions leave
// Pending exactly once.
type StatusTracker struct {
	mu       sync.RWMutex
	statuses map[imagery.ProviderID]*ProviderStatus
	order    []imagery.ProviderID
	expiry   time.Duration
	now      func() time.Time
}

// NewStatusTracker starts every provider in Pending.
func NewStatusTracker(providers []imagery.ProviderID, expiry time.Duration) *StatusTracker {
	t := &StatusTracker{
		statuses: make(map[imagery.ProviderID]*ProviderStatus, len(providers)),
		expiry:   expiry,
		now:      time.Now,
	}
	for _, id := range providers {
		if _, dup := t.statuses[id]; dup {
			continue
		}
		t.statuses[id] = &ProviderStatus{Provider: id, State: StatePending}
		t.order = append(t.order, id)
	}
	return t
}

// Succeed moves a pending provider to Succeeded.
func (t *StatusTracker) Succeed(id imagery.ProviderID, count int) (ProviderStatus, bool) {
	return t.finish(id, StateSucceeded, count, "")
}

// Fail moves a pending provider to Failed.
func (t *StatusTracker) Fail(id imagery.ProviderID, reason string) (ProviderStatus, bool) {
	return t.finish(id, StateFailed, 0, reason)
}

func (t *StatusTracker) finish(id imagery.ProviderID, state State, count int, reason string) (ProviderStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.statuses[id]
	if !ok || st.State != StatePending {
		return ProviderStatus{}, false
	}
	st.State = state
	st.Count = count
	st.Reason = reason
	st.finishedAt = t.now()
	return *st, true
}

// Get returns the status of one provider.
func (t *StatusTracker) Get(id imagery.ProviderID) (ProviderStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st, ok := t.statuses[id]
	if !ok {
		return ProviderStatus{}, false
	}
	return t.view(st), true
}

// Snapshot returns every status in launch order.
func (t *StatusTracker) Snapshot() []ProviderStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]ProviderStatus, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.view(t.statuses[id]))
	}
	return out
}

// Done reports whether every provider is terminal.
func (t *StatusTracker) Done() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, st := range t.statuses {
		if !st.State.Terminal() {
			return false
		}
	}
	return true
}

func (t *StatusTracker) view(st *ProviderStatus) ProviderStatus {
	out := *st
	if out.State.Terminal() && !t.now().Before(out.finishedAt.Add(t.expiry)) {
		out.VisibleExpired = true
	}
	return out
}
