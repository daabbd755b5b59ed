package search

import (
	"sync"
	"time"
)

// Sentinel errors for run store lookups
var (
	ErrRunNotFound = runStoreError("search not found")
	ErrRunExpired  = runStoreError("search expired")
)

type runStoreError string

func (e runStoreError) Error() string {
	return string(e)
}

type runEntry struct {
	run       *Run
	expiresAt time.Time
}

// RunStore keeps runs in memory so they can be polled by id. A run expires
// ttl after it was stored; runs still in progress are never evicted.
// It is suitable for single-instance deployments only.
type RunStore struct {
	mu       sync.RWMutex
	runs     map[string]runEntry
	ttl      time.Duration
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewRunStore creates a store and starts its cleanup loop. now defaults to
// time.Now when nil.
func NewRunStore(ttl, cleanupInterval time.Duration, now func() time.Time) *RunStore {
	if now == nil {
		now = time.Now
	}
	s := &RunStore{
		runs:     make(map[string]runEntry),
		ttl:      ttl,
		now:      now,
		stopChan: make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.cleanupLoop(cleanupInterval)
	}
	return s
}

// Put stores a run under its id.
func (s *RunStore) Put(r *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = runEntry{run: r, expiresAt: s.now().Add(s.ttl)}
}

// Get returns the run with id.
func (s *RunStore) Get(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.runs[id]
	if !exists {
		return nil, ErrRunNotFound
	}
	if entry.run.finished() && s.now().After(entry.expiresAt) {
		return nil, ErrRunExpired
	}
	return entry.run, nil
}

// Delete removes a run.
func (s *RunStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
}

// Len returns the number of stored runs, expired or not.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// Stop stops the background cleanup goroutine.
func (s *RunStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *RunStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

// cleanup removes finished runs past their expiry.
func (s *RunStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.runs {
		if entry.run.finished() && now.After(entry.expiresAt) {
			delete(s.runs, id)
		}
	}
}
