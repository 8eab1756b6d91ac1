package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

type AnomalyHandler struct {
	anomalyService AnomalyServiceInterface
}

func NewAnomalyHandler(anomalyService AnomalyServiceInterface) *AnomalyHandler {
	return &AnomalyHandler{anomalyService: anomalyService}
}

type checkTransactionRequest struct {
	Date    datetime.Date     `json:"date"`
	Amount  decimal.Decimal   `json:"amount"`
	History []decimal.Decimal `json:"history"`
}

type checkTransactionResponse struct {
	IsAnomaly bool        `json:"isAnomaly"`
	Record    interface{} `json:"record,omitempty"`
}

// Check handles POST /api/anomalies/check: runs the outlier test on a
// transaction amount and records a hit.
func (h *AnomalyHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req checkTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.anomalyService.CheckTransaction(r.Context(), userID, req.Date, req.Amount, req.History)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "anomaly check failed")
		return
	}

	resp := checkTransactionResponse{IsAnomaly: rec != nil}
	if rec != nil {
		resp.Record = rec
	}
	respondJSON(w, http.StatusOK, resp)
}

// List handles GET /api/anomalies.
func (h *AnomalyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := h.anomalyService.List(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list anomalies")
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// MarkAllRead handles POST /api/anomalies/read.
func (h *AnomalyHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	n, err := h.anomalyService.MarkAllRead(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to mark anomalies read")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

// Purge handles DELETE /api/anomalies?before=YYYY-MM-DD: maintenance removal
// of records older than the cutoff, across all users.
func (h *AnomalyHandler) Purge(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	cutoff, err := datetime.ParseDate(r.URL.Query().Get("before"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "before must be a YYYY-MM-DD date")
		return
	}

	n, err := h.anomalyService.PurgeBefore(r.Context(), cutoff)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to purge anomalies")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
