package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pixbatch/archive"
	"pixbatch/job"
	"pixbatch/models"
	"pixbatch/ratelimit"
	"pixbatch/store"
)

func TestStatusUnknownJob(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/status?id=ghost", nil)
	rec := httptest.NewRecorder()
	h.StatusHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestStatusMissingID(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	h.StatusHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStatusInFlightJob(t *testing.T) {
	h, _ := newTestHandler()
	h.Store.Create(models.JobState{ID: "j1", Status: models.StatusProcessing, Progress: 2, Total: 5, Info: "optimizing c.jpg"})

	req := httptest.NewRequest(http.MethodGet, "/status?id=j1", nil)
	rec := httptest.NewRecorder()
	h.StatusHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp JobStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != models.StatusProcessing || resp.Progress != 2 || resp.Total != 5 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Result != nil {
		t.Error("in-flight job must not carry a result")
	}
}

func TestStatusSummarizesArchiveResult(t *testing.T) {
	h, _ := newTestHandler()
	payload := bytes.Repeat([]byte("z"), 128)
	h.Store.Create(models.JobState{ID: "j2", Status: models.StatusProcessing, Total: 2})
	h.Store.Update(models.JobState{
		ID: "j2", Status: models.StatusCompleted, Progress: 2, Total: 2,
		Result: &models.JobResult{Type: models.ResultArchive, Archive: payload, Filename: "j2.zip"},
	})

	req := httptest.NewRequest(http.MethodGet, "/status?id=j2", nil)
	rec := httptest.NewRecorder()
	h.StatusHandler(rec, req)

	var resp JobStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result == nil || resp.Result.Type != models.ResultArchive {
		t.Fatalf("expected archive summary, got %+v", resp.Result)
	}
	if resp.Result.SizeBytes != len(payload) || resp.Result.Filename != "j2.zip" {
		t.Errorf("unexpected summary: %+v", resp.Result)
	}
	if resp.Result.DownloadURL != "/result?id=j2" {
		t.Errorf("download url = %q", resp.Result.DownloadURL)
	}
}

func TestResultDownload(t *testing.T) {
	h, _ := newTestHandler()
	payload, err := archive.Build([]models.NamedFile{{Name: "a.webp", Data: []byte("aaa")}})
	if err != nil {
		t.Fatal(err)
	}
	h.Store.Create(models.JobState{ID: "j3", Status: models.StatusProcessing, Total: 1})
	h.Store.Update(models.JobState{
		ID: "j3", Status: models.StatusCompleted, Progress: 1, Total: 1,
		Result: &models.JobResult{Type: models.ResultArchive, Archive: payload, Filename: "j3.zip"},
	})

	req := httptest.NewRequest(http.MethodGet, "/result?id=j3", nil)
	rec := httptest.NewRecorder()
	h.ResultHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Error("downloaded payload mismatch")
	}
}

func TestResultUnavailableForURLJobs(t *testing.T) {
	h, _ := newTestHandler()
	h.Store.Create(models.JobState{ID: "j4", Status: models.StatusProcessing, Total: 1})
	h.Store.Update(models.JobState{
		ID: "j4", Status: models.StatusCompleted, Progress: 1, Total: 1,
		Result: &models.JobResult{Type: models.ResultURLs, URLs: []string{"http://x/a.webp"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/result?id=j4", nil)
	rec := httptest.NewRecorder()
	h.ResultHandler(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

// TestSubmitThenPollFullLoop wires the real runner with fake boundaries and
// exercises the whole submit → background processing → poll flow.
func TestSubmitThenPollFullLoop(t *testing.T) {
	s := store.New(time.Minute)
	runner := &job.Runner{
		Store: s,
		Transcode: func(ctx context.Context, data []byte, settings models.OptimizationSettings) ([]byte, error) {
			return append([]byte("opt:"), data...), nil
		},
		Upload: func(ctx context.Context, jobID, name string, data []byte) (string, error) {
			return "http://cdn.test/" + jobID + "/" + name, nil
		},
		Archive:     archive.Build,
		SizeCeiling: 1 << 20,
	}
	h := &Handler{
		Store:    s,
		Limiter:  ratelimit.New(10, time.Minute),
		Runner:   runner,
		MaxBatch: 10,
	}

	req := multipartRequest(t,
		map[string][]byte{"a.jpg": []byte("aaa"), "b.jpg": []byte("bbb"), "c.jpg": []byte("ccc")},
		map[string]string{"format": "webp", "quality": "80"})
	rec := httptest.NewRecorder()
	h.SubmitHandler(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit status = %d: %s", rec.Code, rec.Body.String())
	}
	id := decodeBody(t, rec)["job_id"]

	runner.Wait()

	pollReq := httptest.NewRequest(http.MethodGet, "/status?id="+id, nil)
	pollRec := httptest.NewRecorder()
	h.StatusHandler(pollRec, pollReq)

	var resp JobStatusResponse
	if err := json.Unmarshal(pollRec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed", resp.Status)
	}
	if resp.Progress != 3 || resp.Total != 3 {
		t.Errorf("progress/total = %d/%d", resp.Progress, resp.Total)
	}
	if resp.Result == nil || resp.Result.Type != models.ResultURLs || len(resp.Result.URLs) != 3 {
		t.Errorf("unexpected result: %+v", resp.Result)
	}
}
