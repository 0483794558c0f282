package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"hisab/internal/websocket"
)

type syncStatusResponse struct {
	Status       string `json:"status"`
	PendingCount int    `json:"pendingCount"`
}

func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, syncStatusResponse{
		Status:       h.sync.Status(),
		PendingCount: h.sync.PendingCount(r.Context()),
	})
}

// ForceSync runs a flush now. A failed flush is not an error to the caller:
// the queue stays intact and the response carries the resulting status.
func (h *Handler) ForceSync(w http.ResponseWriter, r *http.Request) {
	if err := h.sync.Flush(r.Context()); err != nil {
		log.Printf("handlers: forced sync failed: %v", err)
	}
	respondJSON(w, http.StatusOK, syncStatusResponse{
		Status:       h.sync.Status(),
		PendingCount: h.sync.PendingCount(r.Context()),
	})
}

type connectivityRequest struct {
	Online bool `json:"online"`
}

// Connectivity lets the host platform push its own online/offline signal,
// overriding the periodic probe until the next tick.
func (h *Handler) Connectivity(w http.ResponseWriter, r *http.Request) {
	var req connectivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	h.sync.SetOnline(r.Context(), req.Online)
	respondJSON(w, http.StatusOK, syncStatusResponse{
		Status:       h.sync.Status(),
		PendingCount: h.sync.PendingCount(r.Context()),
	})
}

func (h *Handler) WSSync(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWS(w, r, h.hub)
}
