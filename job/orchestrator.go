package job

import (
	"context"
	"fmt"
	"sync"

	"pixbatch/logger"
	"pixbatch/models"
	"pixbatch/store"
)

// TranscodeFunc re-encodes one image per the batch settings. It is the
// boundary to the external codec: either complete output bytes or an error,
// never partial output.
type TranscodeFunc func(ctx context.Context, data []byte, settings models.OptimizationSettings) ([]byte, error)

// UploadFunc stores one optimized image remotely under jobID/name and
// returns its public URL.
type UploadFunc func(ctx context.Context, jobID, name string, data []byte) (string, error)

// ArchiveFunc combines the named buffers into a single archive payload.
type ArchiveFunc func(entries []models.NamedFile) ([]byte, error)

// Recorder receives terminal job states for durable audit. Implemented by
// the history store.
type Recorder interface {
	RecordOutcome(state models.JobState)
}

// Runner drives batch jobs end to end. One goroutine per launched job;
// items within a job are processed strictly sequentially, which bounds
// peak memory and keeps progress unambiguous. Jobs only ever write their
// own store entry, so any number of jobs run concurrently.
type Runner struct {
	Store       *store.Store
	Transcode   TranscodeFunc
	Upload      UploadFunc
	Archive     ArchiveFunc
	SizeCeiling int64
	History     Recorder // optional

	wg sync.WaitGroup
}

// Launch starts processing the batch in the background and returns
// immediately. There is no cancellation primitive: a launched job runs to
// completion or failure.
func (r *Runner) Launch(id string, batch []models.NamedFile, settings models.OptimizationSettings) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(context.Background(), id, batch, settings)
	}()
}

// Wait blocks until every launched job has reached a terminal state. Used
// for graceful drain at shutdown.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context, id string, batch []models.NamedFile, settings models.OptimizationSettings) {
	state := models.JobState{
		ID:     id,
		Status: models.StatusProcessing,
		Total:  len(batch),
	}

	defer func() {
		// A panic below must not take the whole server down; it fails the
		// one job instead.
		if rec := recover(); rec != nil {
			logger.Errorf("job %s panicked: %v", id, rec)
			r.fail(state, fmt.Errorf("internal error: %v", rec))
		}
	}()

	r.Store.Update(state)
	logger.Infof("job %s started: %d files, format=%s", id, len(batch), settings.Format)

	// Pass 1: optimize every item and collect the outputs. No upload happens
	// until the whole batch has transcoded, so the delivery strategy is
	// final before any external side effect.
	names := outputNames(batch, settings.Format)
	outputs := make([]models.NamedFile, 0, len(batch))
	sizes := make([]int64, 0, len(batch))

	for i, item := range batch {
		state.Info = fmt.Sprintf("optimizing %s", item.Name)
		r.Store.Update(state)

		out, err := r.Transcode(ctx, item.Data, settings)
		if err != nil {
			r.fail(state, fmt.Errorf("optimize %s: %w", item.Name, err))
			return
		}

		outputs = append(outputs, models.NamedFile{Name: names[i], Data: out})
		sizes = append(sizes, int64(len(out)))
		state.Progress = i + 1
		r.Store.Update(state)
	}

	// Pass 2: deliver.
	strategy := ChooseStrategy(sizes, r.SizeCeiling)
	state.Status = models.StatusUploading
	logger.Infof("job %s: all %d files optimized, delivering as %s", id, len(batch), strategy)

	switch strategy {
	case StrategyArchive:
		state.Info = "compressing archive"
		r.Store.Update(state)

		payload, err := r.Archive(outputs)
		if err != nil {
			r.fail(state, fmt.Errorf("build archive: %w", err))
			return
		}
		state.Result = &models.JobResult{
			Type:     models.ResultArchive,
			Archive:  payload,
			Filename: id + ".zip",
		}

	default:
		urls := make([]string, 0, len(outputs))
		for _, out := range outputs {
			state.Info = fmt.Sprintf("uploading %s", out.Name)
			r.Store.Update(state)

			url, err := r.Upload(ctx, id, out.Name, out.Data)
			if err != nil {
				r.fail(state, fmt.Errorf("upload %s: %w", out.Name, err))
				return
			}
			urls = append(urls, url)
		}
		state.Result = &models.JobResult{
			Type: models.ResultURLs,
			URLs: urls,
		}
	}

	state.Status = models.StatusCompleted
	state.Info = ""
	r.Store.Update(state)
	if r.History != nil {
		r.History.RecordOutcome(state)
	}
	logger.Infof("job %s completed", id)
}

// fail transitions the job to its terminal failed state. Progress keeps the
// last successful value; no already-performed external work is rolled back.
func (r *Runner) fail(state models.JobState, err error) {
	logger.Errorf("job %s failed: %v", state.ID, err)
	state.Status = models.StatusFailed
	state.Error = err.Error()
	state.Info = ""
	state.Result = nil
	r.Store.Update(state)
	if r.History != nil {
		r.History.RecordOutcome(state)
	}
}
