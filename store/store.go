package store

import (
	"fmt"
	"sync"
	"time"

	"pixbatch/logger"
	"pixbatch/models"
)

// Store is the in-memory job registry. Each job id has a single writer (the
// goroutine running that job) and any number of concurrent pollers; reads
// always observe a complete snapshot, never a partial write. Terminal states
// are evicted lazily: a Get that finds a terminal job older than evictAfter
// removes it and reports absent.
type Store struct {
	mu         sync.RWMutex
	jobs       map[string]models.JobState
	evictAfter time.Duration

	now func() time.Time // overridable in tests
}

// New creates an empty store with the given terminal-state retention.
func New(evictAfter time.Duration) *Store {
	return &Store{
		jobs:       make(map[string]models.JobState),
		evictAfter: evictAfter,
		now:        time.Now,
	}
}

// Create registers a new job. The id must not already be present.
func (s *Store) Create(state models.JobState) error {
	if state.ID == "" {
		return fmt.Errorf("job id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[state.ID]; exists {
		return fmt.Errorf("job %s already exists", state.ID)
	}
	s.jobs[state.ID] = state
	return nil
}

// Update replaces the stored state for the job (full replace, not merge).
// Writes against a job that already reached a terminal state are ignored;
// the transition into a terminal state stamps the eviction clock.
func (s *Store) Update(state models.JobState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[state.ID]; ok && existing.Status.Terminal() {
		logger.Warnf("ignoring update to terminal job %s", state.ID)
		return
	}
	if state.Status.Terminal() && state.FinishedAt.IsZero() {
		state.FinishedAt = s.now()
	}
	s.jobs[state.ID] = state
}

// Get returns a snapshot of the job state, or false when the id is unknown
// or already evicted.
func (s *Store) Get(id string) (models.JobState, bool) {
	s.mu.RLock()
	state, ok := s.jobs[id]
	s.mu.RUnlock()

	if !ok {
		return models.JobState{}, false
	}
	if state.Status.Terminal() && s.now().Sub(state.FinishedAt) >= s.evictAfter {
		s.evict(id)
		return models.JobState{}, false
	}
	return state, true
}

// evict re-checks under the write lock before deleting; the state may have
// been removed by a concurrent reader already.
func (s *Store) evict(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.jobs[id]
	if !ok {
		return
	}
	if state.Status.Terminal() && s.now().Sub(state.FinishedAt) >= s.evictAfter {
		delete(s.jobs, id)
		logger.Debugf("evicted terminal job %s", id)
	}
}

// Len returns the number of jobs currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
