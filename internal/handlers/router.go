package handlers

import (
	"net/http"

	"hisab/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	auth := middleware.Auth(h.cfg.AccessSecret)

	router.Route("/contacts", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", h.ListContacts)
		r.Post("/", h.CreateContact)
		r.Get("/archived", h.ListArchived)
		r.Post("/{id}/archive", h.ArchiveContact)
		r.Post("/{id}/restore", h.RestoreContact)
		r.Get("/{id}/ledger", h.ContactLedger)
	})
	router.Route("/transactions", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", h.ListTransactions)
		r.Post("/", h.CreateTransaction)
	})
	router.Route("/sync", func(r chi.Router) {
		r.Use(auth)
		r.Get("/status", h.SyncStatus)
		r.Post("/flush", h.ForceSync)
		r.Post("/connectivity", h.Connectivity)
	})
	router.With(auth).Post("/receipts", h.UploadReceipt)
	router.Get("/receipts/*", http.StripPrefix("/receipts/", http.FileServer(http.Dir(h.cfg.ReceiptDir))).ServeHTTP)
	router.Get("/gold/presets", h.GoldPresets)
	router.Get("/gold/net", h.GoldNet)
	router.Get("/ws/sync", h.WSSync)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
