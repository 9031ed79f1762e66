package routes

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"pixbatch/logger"
	"pixbatch/models"
)

// maxSubmissionBytes caps the multipart form size held in memory.
const maxSubmissionBytes = 256 << 20 // 256 MB

// SubmitHandler accepts a batch of images plus shared optimization settings,
// registers the job and launches it in the background, returning the job id
// immediately. Validation and admission failures are synchronous; no job is
// created for them.
func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	settings, err := parseSettings(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no files submitted")
		return
	}
	if len(headers) > h.MaxBatch {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("batch of %d files exceeds the maximum of %d", len(headers), h.MaxBatch))
		return
	}

	identity := clientIdentity(r)
	if !h.Limiter.Allow(identity) {
		logger.Warnf("submission from %s denied by rate limit", identity)
		writeError(w, http.StatusTooManyRequests, "too many submissions, try again later")
		return
	}

	batch := make([]models.NamedFile, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to open %s", header.Filename))
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s", header.Filename))
			return
		}
		if len(data) == 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is empty", header.Filename))
			return
		}
		batch = append(batch, models.NamedFile{Name: header.Filename, Data: data})
	}

	id := uuid.NewString()
	if err := h.Store.Create(models.JobState{
		ID:     id,
		Status: models.StatusStarting,
		Total:  len(batch),
	}); err != nil {
		logger.Errorf("failed to register job: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to register job")
		return
	}

	h.Runner.Launch(id, batch, settings)
	logger.Infof("job %s submitted by %s: %d files", id, identity, len(batch))

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": id})
}

// parseSettings reads the shared optimization settings from the form fields.
func parseSettings(r *http.Request) (models.OptimizationSettings, error) {
	settings := models.OptimizationSettings{
		Format:  r.FormValue("format"),
		Quality: models.DefaultQuality,
	}

	if q := r.FormValue("quality"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return settings, fmt.Errorf("invalid quality %q", q)
		}
		settings.Quality = n
	}
	if ws := r.FormValue("width"); ws != "" {
		n, err := strconv.Atoi(ws)
		if err != nil {
			return settings, fmt.Errorf("invalid width %q", ws)
		}
		settings.Width = n
	}
	if hs := r.FormValue("height"); hs != "" {
		n, err := strconv.Atoi(hs)
		if err != nil {
			return settings, fmt.Errorf("invalid height %q", hs)
		}
		settings.Height = n
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}
