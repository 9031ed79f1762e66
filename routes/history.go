package routes

import (
	"fmt"
	"net/http"

	"pixbatch/logger"
)

// HistoryQueryHandler returns the recorded terminal outcome of a job by id.
// Operator-facing: outcomes outlive the in-memory store's eviction window.
func (h *Handler) HistoryQueryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}

	rec, err := h.History.Get(id)
	if err != nil {
		logger.Errorf("history lookup for %s failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "history lookup failed")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no history for job %s", id))
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// HistoryListHandler returns every recorded outcome (for admin/debugging).
func (h *Handler) HistoryListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := h.History.List()
	if err != nil {
		logger.Errorf("history list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "history list failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}
