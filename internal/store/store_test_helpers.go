package store

import (
	"context"
	"database/sql"
	"errors"
)

// memDB is an in-memory stand-in for the kv table: GetContext serves the
// value under args[0], ExecContext upserts args[1] under args[0].
type memDB struct {
	data    map[string][]byte
	failAll bool
}

func newMemDB() *memDB {
	return &memDB{data: make(map[string][]byte)}
}

var errStorageDown = errors.New("storage unavailable")

func (m *memDB) GetContext(_ context.Context, dest any, _ string, args ...any) error {
	if m.failAll {
		return errStorageDown
	}
	key := args[0].(string)
	raw, ok := m.data[key]
	if !ok {
		return sql.ErrNoRows
	}
	*dest.(*[]byte) = append([]byte(nil), raw...)
	return nil
}

func (m *memDB) ExecContext(_ context.Context, _ string, args ...any) (sql.Result, error) {
	if m.failAll {
		return nil, errStorageDown
	}
	key := args[0].(string)
	m.data[key] = toBytes(args[1])
	return stubResult{rows: 1}, nil
}

func toBytes(value any) []byte {
	switch v := value.(type) {
	case []byte:
		return append([]byte(nil), v...)
	case string:
		return []byte(v)
	default:
		return nil
	}
}

type stubDB struct {
	getFn  func(ctx context.Context, dest any, query string, args ...any) error
	execFn func(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s stubDB) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	if s.getFn == nil {
		return sql.ErrNoRows
	}
	return s.getFn(ctx, dest, query, args...)
}

func (s stubDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.execFn == nil {
		return stubResult{}, nil
	}
	return s.execFn(ctx, query, args...)
}

type stubResult struct {
	rows int64
	err  error
}

func (r stubResult) LastInsertId() (int64, error) {
	return 0, r.err
}

func (r stubResult) RowsAffected() (int64, error) {
	return r.rows, r.err
}
