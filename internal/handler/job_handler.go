package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// JobHandler exposes the periodic jobs as manual triggers. The cron schedule
// is the normal path; these endpoints exist for operations and testing.
type JobHandler struct {
	notifier NotifierJob
	cleanup  CleanupJob
}

func NewJobHandler(notifier NotifierJob, cleanup CleanupJob) *JobHandler {
	return &JobHandler{notifier: notifier, cleanup: cleanup}
}

// RunNotifier handles POST /api/jobs/notifier/run. The run executes
// synchronously and returns its report.
func (h *JobHandler) RunNotifier(w http.ResponseWriter, r *http.Request) {
	if GetUserID(r.Context()) == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	report, err := h.notifier.Run(r.Context(), time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// RunCleanup handles POST /api/jobs/cleanup/run.
func (h *JobHandler) RunCleanup(w http.ResponseWriter, r *http.Request) {
	if GetUserID(r.Context()) == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	report, err := h.cleanup.Run(r.Context(), time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}
