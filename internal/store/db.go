package store

import (
	"context"
	"database/sql"
)

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
}

// Tx is the slice of a database transaction the stores need when a caller
// groups writes, e.g. clearing the outbox and marking transactions synced.
type Tx interface {
	Execer
	Getter
}
