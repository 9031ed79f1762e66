package store

import (
	"sync"
	"testing"
	"time"

	"pixbatch/models"
)

func newTestStore(evictAfter time.Duration) (*Store, *time.Time) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(evictAfter)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	state := models.JobState{ID: "job-1", Status: models.StatusStarting, Total: 3}
	if err := s.Create(state); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, ok := s.Get("job-1")
	if !ok {
		t.Fatal("expected job to be present")
	}
	if got.Status != models.StatusStarting || got.Total != 3 {
		t.Errorf("unexpected state: %+v", got)
	}
}

func TestCreateRejectsDuplicate(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	state := models.JobState{ID: "job-1", Status: models.StatusStarting}
	if err := s.Create(state); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := s.Create(state); err == nil {
		t.Error("expected duplicate create to fail")
	}
	if err := s.Create(models.JobState{}); err == nil {
		t.Error("expected create without id to fail")
	}
}

func TestGetUnknownJob(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	if _, ok := s.Get("nope"); ok {
		t.Error("expected unknown id to be absent")
	}
}

func TestUpdateReplacesState(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	s.Create(models.JobState{ID: "job-1", Status: models.StatusStarting, Total: 2})
	s.Update(models.JobState{ID: "job-1", Status: models.StatusProcessing, Progress: 1, Total: 2, Info: "optimizing b.png"})

	got, _ := s.Get("job-1")
	if got.Status != models.StatusProcessing || got.Progress != 1 || got.Info != "optimizing b.png" {
		t.Errorf("unexpected state after update: %+v", got)
	}
}

func TestUpdateIgnoredOnceTerminal(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	s.Create(models.JobState{ID: "job-1", Status: models.StatusProcessing, Total: 1})
	s.Update(models.JobState{ID: "job-1", Status: models.StatusFailed, Total: 1, Error: "boom"})
	s.Update(models.JobState{ID: "job-1", Status: models.StatusProcessing, Total: 1})

	got, _ := s.Get("job-1")
	if got.Status != models.StatusFailed {
		t.Errorf("terminal state was overwritten: %+v", got)
	}
	if got.Error != "boom" {
		t.Errorf("terminal error lost: %+v", got)
	}
}

func TestTerminalEviction(t *testing.T) {
	s, now := newTestStore(time.Minute)

	s.Create(models.JobState{ID: "job-1", Status: models.StatusProcessing, Total: 1})
	s.Update(models.JobState{ID: "job-1", Status: models.StatusCompleted, Progress: 1, Total: 1,
		Result: &models.JobResult{Type: models.ResultURLs, URLs: []string{"http://x/a.webp"}}})

	// Before the delay elapses the terminal state is still pollable.
	*now = now.Add(30 * time.Second)
	if _, ok := s.Get("job-1"); !ok {
		t.Fatal("terminal job should survive until the eviction delay")
	}

	*now = now.Add(time.Minute)
	if _, ok := s.Get("job-1"); ok {
		t.Error("terminal job should be evicted after the delay")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d jobs", s.Len())
	}
}

func TestLiveJobsAreNotEvicted(t *testing.T) {
	s, now := newTestStore(time.Minute)

	s.Create(models.JobState{ID: "job-1", Status: models.StatusProcessing, Total: 5})
	*now = now.Add(time.Hour)

	if _, ok := s.Get("job-1"); !ok {
		t.Error("live job must never be evicted")
	}
}

func TestConcurrentReadersSeeConsistentSnapshots(t *testing.T) {
	s := New(time.Minute)
	s.Create(models.JobState{ID: "job-1", Status: models.StatusProcessing, Total: 100})

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 100; i++ {
			s.Update(models.JobState{ID: "job-1", Status: models.StatusProcessing, Progress: i, Total: 100})
		}
		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := 0
			for {
				select {
				case <-stop:
					return
				default:
				}
				got, ok := s.Get("job-1")
				if !ok {
					t.Error("job disappeared mid-run")
					return
				}
				if got.Progress < last {
					t.Errorf("progress went backwards: %d -> %d", last, got.Progress)
					return
				}
				if got.Progress > got.Total {
					t.Errorf("progress %d exceeds total %d", got.Progress, got.Total)
					return
				}
				last = got.Progress
			}
		}()
	}

	wg.Wait()
}
