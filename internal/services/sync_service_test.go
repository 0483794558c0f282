package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"hisab/internal/models"
	"hisab/internal/store"
	"hisab/internal/websocket"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubOutbox struct {
	mu         sync.Mutex
	items      []models.PendingSyncItem
	enqueueErr error
	listErr    error
	removed    []string
}

func (s *stubOutbox) Enqueue(_ context.Context, item models.PendingSyncItem) error {
	if s.enqueueErr != nil {
		return s.enqueueErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return nil
}

func (s *stubOutbox) List(context.Context) ([]models.PendingSyncItem, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PendingSyncItem(nil), s.items...), nil
}

func (s *stubOutbox) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items), nil
}

func (s *stubOutbox) Remove(_ context.Context, _ store.Tx, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, ids...)
	dropped := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		dropped[id] = struct{}{}
	}
	var remaining []models.PendingSyncItem
	for _, item := range s.items {
		if _, ok := dropped[item.ID]; !ok {
			remaining = append(remaining, item)
		}
	}
	s.items = remaining
	return nil
}

type stubMarker struct {
	mu     sync.Mutex
	marked []string
}

func (s *stubMarker) MarkSynced(_ context.Context, _ store.Tx, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, ids...)
	return nil
}

type recordHub struct {
	mu      sync.Mutex
	updates []websocket.SyncUpdate
}

func (h *recordHub) BroadcastSync(update websocket.SyncUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates = append(h.updates, update)
}

func (h *recordHub) statuses() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, update := range h.updates {
		out = append(out, update.Status)
	}
	return out
}

func pending(id, entityType, entityID string) models.PendingSyncItem {
	return models.PendingSyncItem{
		ID:         id,
		Action:     models.ActionCreate,
		EntityType: entityType,
		Data:       json.RawMessage(`{"id":"` + entityID + `"}`),
		Timestamp:  1,
	}
}

func newSyncService(url string, outbox *stubOutbox, marker *stubMarker, hub *recordHub) *SyncService {
	return NewSyncService(fakeTxRunner{}, outbox, marker, hub, url, "shared-secret", 2*time.Second)
}

func TestFlushEmptyQueueIsNoop(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer server.Close()

	service := newSyncService(server.URL, &stubOutbox{}, &stubMarker{}, &recordHub{})
	service.SetOnline(context.Background(), true)
	if err := service.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatalf("expected no network call for an empty queue")
	}
	if service.Status() != models.StatusOnline {
		t.Fatalf("expected status online, got %s", service.Status())
	}
}

func TestFlushWhileOfflineIsNoop(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer server.Close()

	outbox := &stubOutbox{items: []models.PendingSyncItem{pending("p1", models.EntityContact, "c1")}}
	service := newSyncService(server.URL, outbox, &stubMarker{}, &recordHub{})
	if err := service.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatalf("expected no network call while offline")
	}
}

func TestFlushSuccess(t *testing.T) {
	var gotEnvelope syncEnvelope
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotEnvelope); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer server.Close()

	outbox := &stubOutbox{items: []models.PendingSyncItem{
		pending("p1", models.EntityContact, "c1"),
		pending("p2", models.EntityTransaction, "t1"),
	}}
	marker := &stubMarker{}
	hub := &recordHub{}
	service := newSyncService(server.URL, outbox, marker, hub)
	service.SetOnline(context.Background(), true)

	if err := service.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotEnvelope.Secret != "shared-secret" || len(gotEnvelope.Actions) != 2 {
		t.Fatalf("unexpected envelope: %+v", gotEnvelope)
	}
	if len(outbox.removed) != 2 {
		t.Fatalf("expected both items cleared, removed %v", outbox.removed)
	}
	if len(marker.marked) != 1 || marker.marked[0] != "t1" {
		t.Fatalf("expected transaction t1 marked synced, got %v", marker.marked)
	}
	if service.Status() != models.StatusOnline {
		t.Fatalf("expected status online after flush, got %s", service.Status())
	}
	sawSyncing := false
	for _, status := range hub.statuses() {
		if status == models.StatusSyncing {
			sawSyncing = true
		}
	}
	if !sawSyncing {
		t.Fatalf("expected a syncing broadcast, got %v", hub.statuses())
	}
}

func TestFlushRejectedLeavesQueueIntact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": "bad secret"})
	}))
	defer server.Close()

	outbox := &stubOutbox{items: []models.PendingSyncItem{pending("p1", models.EntityContact, "c1")}}
	service := newSyncService(server.URL, outbox, &stubMarker{}, &recordHub{})
	service.SetOnline(context.Background(), true)

	err := service.Flush(context.Background())
	if !errors.Is(err, ErrSyncRejected) {
		t.Fatalf("expected ErrSyncRejected, got %v", err)
	}
	if len(outbox.removed) != 0 {
		t.Fatalf("rejected batch must not clear the queue: removed %v", outbox.removed)
	}
	items, _ := outbox.List(context.Background())
	if len(items) != 1 || items[0].ID != "p1" {
		t.Fatalf("queue changed after rejected flush: %#v", items)
	}
	// never offline from a flush outcome
	if service.Status() != models.StatusOnline {
		t.Fatalf("expected status online after failed flush, got %s", service.Status())
	}
}

func TestFlushTransportErrorLeavesQueueIntact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from now on

	outbox := &stubOutbox{items: []models.PendingSyncItem{pending("p1", models.EntityContact, "c1")}}
	service := newSyncService(server.URL, outbox, &stubMarker{}, &recordHub{})
	service.SetOnline(context.Background(), true)

	err := service.Flush(context.Background())
	if !errors.Is(err, ErrSyncTransport) {
		t.Fatalf("expected ErrSyncTransport, got %v", err)
	}
	items, _ := outbox.List(context.Background())
	if len(items) != 1 {
		t.Fatalf("queue changed after transport failure: %#v", items)
	}
	if service.Status() != models.StatusOnline {
		t.Fatalf("expected status online, got %s", service.Status())
	}
}

func TestFlushSingleFlight(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{})
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			close(arrived)
			<-release
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer server.Close()

	outbox := &stubOutbox{items: []models.PendingSyncItem{pending("p1", models.EntityContact, "c1")}}
	service := newSyncService(server.URL, outbox, &stubMarker{}, &recordHub{})
	service.SetOnline(context.Background(), true)

	done := make(chan struct{})
	go func() {
		_ = service.Flush(context.Background())
		close(done)
	}()
	<-arrived

	// a second flush while one is in flight is dropped, not queued
	if err := service.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("expected a single in-flight request, got %d", got)
	}
	close(release)
	<-done
}

func TestSetOnlineTransitions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer server.Close()

	service := newSyncService(server.URL, &stubOutbox{}, &stubMarker{}, &recordHub{})
	if service.Status() != models.StatusOffline {
		t.Fatalf("expected to start offline, got %s", service.Status())
	}
	service.SetOnline(context.Background(), true)
	if service.Status() != models.StatusOnline {
		t.Fatalf("expected online, got %s", service.Status())
	}
	service.SetOnline(context.Background(), false)
	if service.Status() != models.StatusOffline {
		t.Fatalf("expected offline, got %s", service.Status())
	}
}

func TestSetOnlineTriggersFlush(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer server.Close()

	outbox := &stubOutbox{items: []models.PendingSyncItem{pending("p1", models.EntityContact, "c1")}}
	service := newSyncService(server.URL, outbox, &stubMarker{}, &recordHub{})
	service.SetOnline(context.Background(), true)
	if atomic.LoadInt64(&calls) != 1 {
		t.Fatalf("expected reconnect to flush the queue, calls=%d", calls)
	}
}

func TestEnqueueOpportunisticFlush(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer server.Close()

	outbox := &stubOutbox{}
	service := newSyncService(server.URL, outbox, &stubMarker{}, &recordHub{})
	service.SetOnline(context.Background(), true)

	if err := service.Enqueue(context.Background(), models.ActionCreate, models.EntityContact, models.Contact{ID: "c1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt64(&calls) != 1 {
		t.Fatalf("expected enqueue to trigger a flush, calls=%d", calls)
	}

	service.SetOnline(context.Background(), false)
	if err := service.Enqueue(context.Background(), models.ActionCreate, models.EntityContact, models.Contact{ID: "c2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt64(&calls) != 1 {
		t.Fatalf("offline enqueue must not hit the network, calls=%d", calls)
	}
	if service.PendingCount(context.Background()) != 1 {
		t.Fatalf("expected one pending item, got %d", service.PendingCount(context.Background()))
	}
}
