package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hisab/internal/models"
	"hisab/internal/services"
	"hisab/internal/store"
	"hisab/internal/validator"

	"github.com/go-chi/chi/v5"
)

type createContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	contact, err := h.service.AddContact(r.Context(), req.Name, req.Phone)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, contact)
	case errors.Is(err, store.ErrDuplicateContact):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, validator.ErrInvalidName), errors.Is(err, validator.ErrInvalidPhone):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "unable to save contact")
	}
}

func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts := h.service.ListContacts(r.Context(), r.URL.Query().Get("q"))
	if contacts == nil {
		contacts = []models.Contact{}
	}
	respondJSON(w, http.StatusOK, contacts)
}

func (h *Handler) ListArchived(w http.ResponseWriter, r *http.Request) {
	contacts := h.service.ListArchived(r.Context())
	if contacts == nil {
		contacts = []models.Contact{}
	}
	respondJSON(w, http.StatusOK, contacts)
}

func (h *Handler) ArchiveContact(w http.ResponseWriter, r *http.Request) {
	updated, err := h.service.ArchiveContact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to archive contact")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

func (h *Handler) RestoreContact(w http.ResponseWriter, r *http.Request) {
	updated, err := h.service.RestoreContact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to restore contact")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

func (h *Handler) ContactLedger(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.service.ContactLedger(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownContact) {
			respondError(w, http.StatusNotFound, "contact not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load ledger")
		return
	}
	if ledger.Transactions == nil {
		ledger.Transactions = []models.Transaction{}
	}
	respondJSON(w, http.StatusOK, ledger)
}
