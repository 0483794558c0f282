package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hisab/internal/config"
	"hisab/internal/connectivity"
	"hisab/internal/db"
	"hisab/internal/handlers"
	"hisab/internal/receipt"
	"hisab/internal/services"
	"hisab/internal/store"
	"hisab/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := store.EnsureSchema(context.Background(), database); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	kv := store.NewKV()
	contacts := store.NewContactStore(database, kv)
	transactions := store.NewTransactionStore(database, kv)
	outbox := store.NewOutboxStore(database, kv)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	receipts, err := receipt.NewFileProcessor(cfg.ReceiptDir)
	if err != nil {
		log.Fatalf("failed to prepare receipt dir: %v", err)
	}

	syncService := services.NewSyncService(txRunner, outbox, transactions, hub, cfg.SyncURL, cfg.SyncSecret, cfg.SyncTimeout)
	ledgerService := services.NewLedgerService(contacts, transactions, syncService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.SyncURL != "" {
		monitor := connectivity.NewMonitor(cfg.SyncURL, cfg.ProbeInterval, syncService)
		go monitor.Run(ctx)
	} else {
		log.Printf("sync disabled: no SYNC_URL configured")
	}

	handler := handlers.New(cfg, ledgerService, syncService, receipts, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("hisab daemon listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
