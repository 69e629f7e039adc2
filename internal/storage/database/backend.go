package database

import (
	"context"
	"database/sql"

	"github.com/louisbranch/sqlib/internal/storage/sqlconn"
)

// Backend describes where a database lives and how to reach it.
type Backend interface {
	// Name is the database name: the file stem for SQLite, the schema for
	// server engines.
	Name() string
	Dialect() sqlconn.Dialect
	DSN() (string, error)
}

// preparer is implemented by backends that need local setup before the
// first open, such as creating a directory.
type preparer interface {
	prepare() error
}

// opener is implemented by backends that open their handle without going
// through sql.Open.
type opener interface {
	open(ctx context.Context, dsn string) (*sql.DB, error)
}

func openBackend(ctx context.Context, backend Backend) (*sql.DB, error) {
	if p, ok := backend.(preparer); ok {
		if err := p.prepare(); err != nil {
			return nil, err
		}
	}
	dsn, err := backend.DSN()
	if err != nil {
		return nil, err
	}
	if o, ok := backend.(opener); ok {
		return o.open(ctx, dsn)
	}
	db, err := sql.Open(backend.Dialect().DriverName(), dsn)
	if err != nil {
		return nil, err
	}
	return db, nil
}
