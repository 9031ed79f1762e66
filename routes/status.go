package routes

import (
	"fmt"
	"net/http"

	"pixbatch/logger"
	"pixbatch/models"
)

// JobStatusResponse is the poll snapshot returned to clients. Archive
// payloads are summarized, not inlined; the bytes are fetched from the
// result endpoint.
type JobStatusResponse struct {
	ID       string            `json:"id"`
	Status   models.JobStatus  `json:"status"`
	Progress int               `json:"progress"`
	Total    int               `json:"total"`
	Info     string            `json:"info,omitempty"`
	Error    string            `json:"error,omitempty"`
	Result   *JobResultSummary `json:"result,omitempty"`
}

// JobResultSummary describes a completed job's payload.
type JobResultSummary struct {
	Type        models.ResultType `json:"type"`
	URLs        []string          `json:"urls,omitempty"`
	Filename    string            `json:"filename,omitempty"`
	SizeBytes   int               `json:"size_bytes,omitempty"`
	DownloadURL string            `json:"download_url,omitempty"`
}

// StatusHandler returns the state of a job by id. Evicted and unknown ids
// are indistinguishable: both are a 404.
func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Job status request: method=%s, remoteAddr=%s", r.Method, r.RemoteAddr)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}

	state, ok := h.Store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("job %s not found", id))
		return
	}

	resp := JobStatusResponse{
		ID:       state.ID,
		Status:   state.Status,
		Progress: state.Progress,
		Total:    state.Total,
		Info:     state.Info,
		Error:    state.Error,
	}
	if state.Result != nil {
		summary := &JobResultSummary{Type: state.Result.Type}
		switch state.Result.Type {
		case models.ResultURLs:
			summary.URLs = state.Result.URLs
		case models.ResultArchive:
			summary.Filename = state.Result.Filename
			summary.SizeBytes = len(state.Result.Archive)
			summary.DownloadURL = "/result?id=" + state.ID
		}
		resp.Result = summary
	}

	writeJSON(w, http.StatusOK, resp)
}
