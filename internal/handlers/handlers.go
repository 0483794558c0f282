package handlers

import (
	"encoding/json"
	"net/http"

	"hisab/internal/config"
	"hisab/internal/receipt"
	"hisab/internal/websocket"
)

type Handler struct {
	cfg      config.Config
	service  LedgerService
	sync     SyncService
	receipts receipt.Processor
	hub      *websocket.Hub
}

func New(cfg config.Config, service LedgerService, sync SyncService, receipts receipt.Processor, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:      cfg,
		service:  service,
		sync:     sync,
		receipts: receipts,
		hub:      hub,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
