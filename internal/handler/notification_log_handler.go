package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/michel-reyes/coin-copilot/internal/model"
)

// NotificationLogReader lists a user's recent delivery outcomes.
type NotificationLogReader interface {
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.NotificationLogEntry, error)
}

const defaultLogLimit = 50

type NotificationLogHandler struct {
	logs NotificationLogReader
}

func NewNotificationLogHandler(logs NotificationLogReader) *NotificationLogHandler {
	return &NotificationLogHandler{logs: logs}
}

// History handles GET /api/notifications/log?limit=N.
func (h *NotificationLogHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.logs.ListRecent(r.Context(), userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list notification history")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
