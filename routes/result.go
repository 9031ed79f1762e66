package routes

import (
	"fmt"
	"net/http"

	"pixbatch/models"
)

// ResultHandler serves the archive payload of a completed archive-strategy
// job as a zip download.
func (h *Handler) ResultHandler(w http.ResponseWriter, r *http.Request) {
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
	if state.Status != models.StatusCompleted || state.Result == nil || state.Result.Type != models.ResultArchive {
		writeError(w, http.StatusConflict, "job has no downloadable archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", state.Result.Filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(state.Result.Archive)))
	w.Write(state.Result.Archive)
}
