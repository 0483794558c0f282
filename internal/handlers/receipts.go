package handlers

import (
	"log"
	"net/http"
)

const maxReceiptUpload = 10 << 20

// UploadReceipt compresses and stores a receipt photo, returning the URL
// to put on the transaction that is about to be created.
func (h *Handler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxReceiptUpload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image is required")
		return
	}
	defer file.Close()
	url, err := h.receipts.Process(r.Context(), file)
	if err != nil {
		log.Printf("handlers: receipt processing failed: %v", err)
		respondError(w, http.StatusBadRequest, "unable to process image")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"url": url})
}
