package store

import (
	"context"
	"encoding/json"

	"hisab/internal/models"
)

// OutboxStore persists the queue of pending sync items. Items are only
// removed after the remote endpoint confirms the batch they were part of.
type OutboxStore struct {
	db DB
	kv *KV
}

func NewOutboxStore(db DB, kv *KV) *OutboxStore {
	return &OutboxStore{db: db, kv: kv}
}

func (s *OutboxStore) Enqueue(ctx context.Context, item models.PendingSyncItem) error {
	items, err := s.load(ctx, s.db)
	if err != nil {
		return err
	}
	return s.save(ctx, s.db, append(items, item))
}

// List returns the queue in enqueue order. Unlike the read paths of the
// other stores this one is strict: the flush protocol must abort rather
// than mistake a read failure for an empty queue.
func (s *OutboxStore) List(ctx context.Context) ([]models.PendingSyncItem, error) {
	return s.load(ctx, s.db)
}

func (s *OutboxStore) Count(ctx context.Context) (int, error) {
	items, err := s.load(ctx, s.db)
	return len(items), err
}

// Remove deletes the given items from the queue, keeping anything enqueued
// after the batch was snapshotted. Runs inside the caller's database
// transaction.
func (s *OutboxStore) Remove(ctx context.Context, tx Tx, ids []string) error {
	items, err := s.load(ctx, tx)
	if err != nil {
		return err
	}
	removed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		removed[id] = struct{}{}
	}
	remaining := make([]models.PendingSyncItem, 0, len(items))
	for _, item := range items {
		if _, ok := removed[item.ID]; !ok {
			remaining = append(remaining, item)
		}
	}
	return s.save(ctx, tx, remaining)
}

func (s *OutboxStore) load(ctx context.Context, db DB) ([]models.PendingSyncItem, error) {
	raw, err := s.kv.Get(ctx, db, pendingSyncKey)
	if err != nil || raw == nil {
		return nil, err
	}
	var items []models.PendingSyncItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *OutboxStore) save(ctx context.Context, db DB, items []models.PendingSyncItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, db, pendingSyncKey, raw)
}
