package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/michel-reyes/coin-copilot/internal/push"
)

type PushTokenHandler struct {
	tokens PushTokenStore
}

func NewPushTokenHandler(tokens PushTokenStore) *PushTokenHandler {
	return &PushTokenHandler{tokens: tokens}
}

type registerTokenRequest struct {
	Token string `json:"token"`
}

// Register handles PUT /api/notifications/token.
func (h *PushTokenHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req registerTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !push.IsValidToken(req.Token) {
		respondError(w, http.StatusBadRequest, "invalid push token")
		return
	}

	if err := h.tokens.Upsert(r.Context(), userID, req.Token); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to register token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unregister handles DELETE /api/notifications/token.
func (h *PushTokenHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.tokens.Clear(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to unregister token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
