package store

import (
	"context"
	"database/sql"
	"errors"
)

// Storage keys. Each higher-level store owns exactly one key and always
// reads, modifies and rewrites that single key, so no multi-key guarantee
// is needed from the substrate.
const (
	contactsKey     = "hisab_contacts"
	transactionsKey = "hisab_transactions"
	pendingSyncKey  = "hisab_pending_sync"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// KV is the durable key-value substrate: the only code that touches
// persistent storage. A Set either fully replaces the value under the key
// or fails leaving the prior value intact (single-statement upsert).
type KV struct{}

func NewKV() *KV {
	return &KV{}
}

// EnsureSchema creates the kv table. Idempotent, run on every startup.
func EnsureSchema(ctx context.Context, e Execer) error {
	_, err := e.ExecContext(ctx, schemaDDL)
	return err
}

// Get returns the value stored under key, or nil when the key is absent.
func (s *KV) Get(ctx context.Context, g Getter, key string) ([]byte, error) {
	var value []byte
	err := g.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *KV) Set(ctx context.Context, e Execer, key string, value []byte) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
