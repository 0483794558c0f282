package store

import (
	"context"
	"encoding/json"
	"log"
	"sort"

	"hisab/internal/models"
)

type TransactionStore struct {
	db DB
	kv *KV
}

func NewTransactionStore(db DB, kv *KV) *TransactionStore {
	return &TransactionStore{db: db, kv: kv}
}

// Append persists the transaction unconditionally. Transactions are not
// deduplicated: two identical-looking entries on the same day are
// legitimate.
func (s *TransactionStore) Append(ctx context.Context, transaction models.Transaction) error {
	transactions, err := s.load(ctx, s.db)
	if err != nil {
		return err
	}
	return s.save(ctx, s.db, append(transactions, transaction))
}

func (s *TransactionStore) ListAll(ctx context.Context) []models.Transaction {
	transactions, err := s.load(ctx, s.db)
	if err != nil {
		log.Printf("transaction store: read failed, serving empty list: %v", err)
		return nil
	}
	return transactions
}

// ListByContact returns the contact's transactions sorted by date
// descending, ties broken by timestamp descending, so the most recent
// activity comes first even when entries share a calendar date.
func (s *TransactionStore) ListByContact(ctx context.Context, contactID string) []models.Transaction {
	all := s.ListAll(ctx)
	var filtered []models.Transaction
	for _, transaction := range all {
		if transaction.ContactID == contactID {
			filtered = append(filtered, transaction)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Date != filtered[j].Date {
			return filtered[i].Date > filtered[j].Date
		}
		return filtered[i].Timestamp > filtered[j].Timestamp
	})
	return filtered
}

// MarkSynced flips isSynced on the given transaction ids. Runs inside the
// caller's database transaction so it commits together with the outbox
// clear. The flag is advisory and never gates local correctness.
func (s *TransactionStore) MarkSynced(ctx context.Context, tx Tx, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	transactions, err := s.load(ctx, tx)
	if err != nil {
		return err
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	changed := false
	for i := range transactions {
		if _, ok := wanted[transactions[i].ID]; ok && !transactions[i].IsSynced {
			transactions[i].IsSynced = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(ctx, tx, transactions)
}

func (s *TransactionStore) load(ctx context.Context, db DB) ([]models.Transaction, error) {
	raw, err := s.kv.Get(ctx, db, transactionsKey)
	if err != nil || raw == nil {
		return nil, err
	}
	var transactions []models.Transaction
	if err := json.Unmarshal(raw, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *TransactionStore) save(ctx context.Context, db DB, transactions []models.Transaction) error {
	raw, err := json.Marshal(transactions)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, db, transactionsKey, raw)
}
