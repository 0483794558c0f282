package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hisab/internal/models"
	"hisab/internal/money"
	"hisab/internal/services"
	"hisab/internal/validator"
)

type createTransactionRequest struct {
	ContactID   string `json:"contactId"`
	Type        string `json:"type"`
	Direction   string `json:"direction"`
	Amount      string `json:"amount"`
	GrossWeight string `json:"grossWeight"`
	Purity      string `json:"purity"`
	Karat       string `json:"karat"`
	Description string `json:"description"`
	Date        string `json:"date"`
	ReceiptURL  string `json:"receiptUrl"`
}

type createTransactionResponse struct {
	Transaction     models.Transaction `json:"transaction"`
	ContactArchived bool               `json:"contactArchived"`
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	input, err := parseTransactionInput(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	transaction, archived, err := h.service.AddTransaction(r.Context(), input)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, createTransactionResponse{
			Transaction:     transaction,
			ContactArchived: archived,
		})
	case errors.Is(err, services.ErrUnknownContact):
		respondError(w, http.StatusNotFound, "contact not found")
	case errors.Is(err, services.ErrInvalidType),
		errors.Is(err, services.ErrInvalidDirection),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidGoldFields),
		errors.Is(err, services.ErrNetWeightMismatch),
		errors.Is(err, validator.ErrInvalidDate),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrTooManyDecimals):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "unable to save transaction")
	}
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions := h.service.ListTransactions(r.Context())
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	respondJSON(w, http.StatusOK, transactions)
}
