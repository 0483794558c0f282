package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hisab/internal/db"
	"hisab/internal/models"
	"hisab/internal/store"
	"hisab/internal/websocket"
)

var (
	ErrSyncTransport = errors.New("sync transport failed")
	ErrSyncRejected  = errors.New("sync batch rejected")
)

type OutboxStore interface {
	Enqueue(ctx context.Context, item models.PendingSyncItem) error
	List(ctx context.Context) ([]models.PendingSyncItem, error)
	Count(ctx context.Context) (int, error)
	Remove(ctx context.Context, tx store.Tx, ids []string) error
}

type TransactionMarker interface {
	MarkSynced(ctx context.Context, tx store.Tx, ids []string) error
}

type SyncHub interface {
	BroadcastSync(update websocket.SyncUpdate)
}

// SyncService owns the outbox: it mirrors every local mutation into a
// durable queue and ships the queue to the remote endpoint as one batch.
// Delivery is at-least-once; the remote deduplicates on
// (action, entityType, entity.id).
type SyncService struct {
	txRunner     db.TxRunner
	outbox       OutboxStore
	transactions TransactionMarker
	hub          SyncHub
	client       *http.Client
	url          string
	secret       string

	mu     sync.Mutex
	online bool
	status string

	// flushMu is the single-flight guard: at most one flush in flight,
	// a second request is dropped, not queued.
	flushMu sync.Mutex
}

// syncEnvelope is the wrapped batch shape the remote endpoint accepts.
type syncEnvelope struct {
	Secret  string                   `json:"secret"`
	Actions []models.PendingSyncItem `json:"actions"`
}

type syncResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func NewSyncService(txRunner db.TxRunner, outbox OutboxStore, transactions TransactionMarker, hub SyncHub, url, secret string, timeout time.Duration) *SyncService {
	return &SyncService{
		txRunner:     txRunner,
		outbox:       outbox,
		transactions: transactions,
		hub:          hub,
		client:       &http.Client{Timeout: timeout},
		url:          url,
		secret:       secret,
		status:       models.StatusOffline,
	}
}

// Enqueue appends a mutation to the outbox and, when connectivity is
// available, opportunistically attempts a flush. The flush is best-effort;
// only the enqueue itself can fail.
func (s *SyncService) Enqueue(ctx context.Context, action, entityType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	item := models.PendingSyncItem{
		ID:         uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		Data:       data,
		Timestamp:  time.Now().UnixMilli(),
	}
	if err := s.outbox.Enqueue(ctx, item); err != nil {
		return err
	}
	s.broadcast(ctx)
	if s.Online() {
		if err := s.Flush(ctx); err != nil {
			log.Printf("sync: opportunistic flush failed: %v", err)
		}
	}
	return nil
}

// Flush ships the entire current queue to the remote endpoint. A rejected
// or failed batch leaves the queue untouched for the next trigger; status
// never drops to offline because of a flush outcome. Flushing while
// offline or with an empty queue is a no-op with no network call.
func (s *SyncService) Flush(ctx context.Context) error {
	if !s.Online() {
		return nil
	}
	if !s.flushMu.TryLock() {
		// a flush is already in flight; the next trigger retries with
		// the by-then-larger queue
		return nil
	}
	defer s.flushMu.Unlock()

	// re-read rather than trust any cached count
	items, err := s.outbox.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	s.setStatus(models.StatusSyncing)
	s.broadcast(ctx)
	defer func() {
		s.settle()
		s.broadcast(ctx)
	}()

	if err := s.send(ctx, items); err != nil {
		log.Printf("sync: flush failed, queue left intact: %v", err)
		return err
	}

	itemIDs := make([]string, 0, len(items))
	var transactionIDs []string
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
		if item.EntityType != models.EntityTransaction {
			continue
		}
		var entity struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(item.Data, &entity); err == nil && entity.ID != "" {
			transactionIDs = append(transactionIDs, entity.ID)
		}
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.outbox.Remove(ctx, tx, itemIDs); err != nil {
			return err
		}
		return s.transactions.MarkSynced(ctx, tx, transactionIDs)
	})
	if err != nil {
		// the remote already applied the batch; it will be redelivered
		// and deduplicated there
		log.Printf("sync: failed to clear delivered batch: %v", err)
		return err
	}
	return nil
}

// SetOnline is fed by the connectivity monitor. A transition to online
// triggers an opportunistic flush; a transition to offline forces the
// status down whatever it was.
func (s *SyncService) SetOnline(ctx context.Context, online bool) {
	s.mu.Lock()
	was := s.online
	s.online = online
	if online {
		if s.status == models.StatusOffline {
			s.status = models.StatusOnline
		}
	} else {
		s.status = models.StatusOffline
	}
	s.mu.Unlock()
	if online == was {
		return
	}
	s.broadcast(ctx)
	if online {
		if err := s.Flush(ctx); err != nil {
			log.Printf("sync: flush after reconnect failed: %v", err)
		}
	}
}

func (s *SyncService) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

func (s *SyncService) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *SyncService) PendingCount(ctx context.Context) int {
	count, err := s.outbox.Count(ctx)
	if err != nil {
		log.Printf("sync: pending count unavailable: %v", err)
		return 0
	}
	return count
}

func (s *SyncService) send(ctx context.Context, items []models.PendingSyncItem) error {
	body, err := json.Marshal(syncEnvelope{Secret: s.secret, Actions: items})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncTransport, err)
	}
	defer resp.Body.Close()
	var parsed syncResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("%w: unreadable response: %v", ErrSyncTransport, err)
	}
	if parsed.Status != "success" {
		return fmt.Errorf("%w: %s", ErrSyncRejected, parsed.Error)
	}
	return nil
}

func (s *SyncService) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// settle returns the status to whatever connectivity dictates once a flush
// has finished, success or failure.
func (s *SyncService) settle() {
	s.mu.Lock()
	if s.online {
		s.status = models.StatusOnline
	} else {
		s.status = models.StatusOffline
	}
	s.mu.Unlock()
}

func (s *SyncService) broadcast(ctx context.Context) {
	s.hub.BroadcastSync(websocket.SyncUpdate{
		Status:       s.Status(),
		PendingCount: s.PendingCount(ctx),
	})
}
