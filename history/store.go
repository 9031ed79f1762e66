package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"pixbatch/logger"
	"pixbatch/models"
)

// Record is the durable audit entry written when a job reaches a terminal
// state. This is an operator-facing log, not resumable job state: nothing is
// ever rehydrated from it.
type Record struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	ResultType string    `json:"result_type,omitempty"`
	FileCount  int       `json:"file_count"`
	FinishedAt time.Time `json:"finished_at"`
}

// Store persists terminal job outcomes in a Pebble DB.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the history database at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordOutcome stores the terminal state of a job. Best effort: failures
// are logged, never propagated into the job itself.
func (s *Store) RecordOutcome(state models.JobState) {
	if s == nil {
		return
	}

	rec := Record{
		ID:         state.ID,
		Status:     string(state.Status),
		Error:      state.Error,
		FileCount:  state.Total,
		FinishedAt: time.Now(),
	}
	if state.Result != nil {
		rec.ResultType = string(state.Result.Type)
	}

	if err := s.Put(rec); err != nil {
		logger.Errorf("Failed to record outcome for job %s: %v", state.ID, err)
	}
}

// Put writes one record keyed by job id.
func (s *Store) Put(rec Record) error {
	if s.db == nil {
		return fmt.Errorf("history store not initialized")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}
	return s.db.Set([]byte(rec.ID), data, pebble.Sync)
}

// Get retrieves a record by job id. A missing id returns (nil, nil).
func (s *Store) Get(id string) (*Record, error) {
	if s.db == nil {
		return nil, fmt.Errorf("history store not initialized")
	}

	data, closer, err := s.db.Get([]byte(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history record: %w", err)
	}
	return &rec, nil
}

// List returns all records (for admin/debugging).
func (s *Store) List() ([]Record, error) {
	if s.db == nil {
		return nil, fmt.Errorf("history store not initialized")
	}

	var records []Record
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var rec Record
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			continue // Skip invalid records
		}
		records = append(records, rec)
	}
	return records, nil
}

// CleanupOldRecords removes records older than maxAge.
func (s *Store) CleanupOldRecords(maxAge time.Duration) error {
	if s.db == nil {
		return fmt.Errorf("history store not initialized")
	}

	cutoff := time.Now().Add(-maxAge)
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer iter.Close()

	var keysToDelete [][]byte
	for iter.First(); iter.Valid(); iter.Next() {
		var rec Record
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			continue
		}
		if rec.FinishedAt.Before(cutoff) {
			key := make([]byte, len(iter.Key()))
			copy(key, iter.Key())
			keysToDelete = append(keysToDelete, key)
		}
	}

	for _, key := range keysToDelete {
		if err := s.db.Delete(key, pebble.Sync); err != nil {
			return fmt.Errorf("failed to delete old history record: %w", err)
		}
	}
	return nil
}
