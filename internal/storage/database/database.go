package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"sync"

	apperrors "github.com/louisbranch/sqlib/internal/platform/errors"
	"github.com/louisbranch/sqlib/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/sqlib/internal/platform/timeouts"
	"github.com/louisbranch/sqlib/internal/storage/record"
	"github.com/louisbranch/sqlib/internal/storage/sqlconn"
)

// Database owns the connection to one backend.
type Database struct {
	backend       Backend
	logger        *log.Logger
	migrations    fs.FS
	migrationRoot string

	mu   sync.Mutex
	db   *sql.DB
	conn *sqlconn.Conn
}

// Option configures a Database.
type Option func(*Database)

// WithLogger routes connection logs to logger instead of the standard logger.
func WithLogger(logger *log.Logger) Option {
	return func(d *Database) {
		d.logger = logger
	}
}

// WithMigrations applies the *.sql files under root of fsys on every
// Connect. Only SQLite backends support migrations.
func WithMigrations(fsys fs.FS, root string) Option {
	return func(d *Database) {
		d.migrations = fsys
		d.migrationRoot = root
	}
}

// New validates backend by connecting and disconnecting once, and returns a
// Database ready for Connect.
func New(ctx context.Context, backend Backend, opts ...Option) (*Database, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	d := &Database{backend: backend}
	for _, opt := range opts {
		opt(d)
	}
	if d.migrations != nil && backend.Dialect() != sqlconn.SQLite {
		return nil, fmt.Errorf("migrations are only supported for sqlite, not %s", backend.Dialect())
	}
	if err := d.Connect(ctx); err != nil {
		return nil, err
	}
	if err := d.Disconnect(); err != nil {
		return nil, err
	}
	return d, nil
}

// Backend returns the backend the database was built from.
func (d *Database) Backend() Backend {
	return d.backend
}

func (d *Database) logf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Connect opens and pings the backend and applies migrations. It does
// nothing when already connected.
func (d *Database) Connect(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db != nil {
		return nil
	}

	dialect := d.backend.Dialect()
	d.logf("connecting to database backend=%s name=%s", dialect, d.backend.Name())

	db, err := openBackend(ctx, d.backend)
	if err != nil {
		return fmt.Errorf("open %s database: %w", dialect, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Connect)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping %s database: %w", dialect, describeSQLiteError(d.backend, err))
	}

	if d.migrations != nil {
		migrateCtx, cancelMigrate := context.WithTimeout(ctx, timeouts.Migrate)
		defer cancelMigrate()
		applied, err := sqlitemigrate.ApplyMigrations(migrateCtx, db, d.migrations, d.migrationRoot)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("run migrations: %w", err)
		}
		if len(applied) > 0 {
			d.logf("applied %d migrations to %s", len(applied), d.backend.Name())
		}
	}

	d.db = db
	d.conn = sqlconn.New(db, dialect)
	return nil
}

// Disconnect closes the connection. It does nothing when not connected.
func (d *Database) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	db := d.db
	d.db = nil
	d.conn = nil
	if err := db.Close(); err != nil {
		return fmt.Errorf("close %s database: %w", d.backend.Dialect(), err)
	}
	return nil
}

// Connected reports whether Connect has succeeded without a later
// Disconnect.
func (d *Database) Connected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db != nil
}

// Conn returns the live connection.
func (d *Database) Conn() (*sqlconn.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil, apperrors.WithMetadata(apperrors.CodeNotConnected, "database is not connected",
			map[string]string{"database": d.backend.Name()})
	}
	return d.conn, nil
}

// Table creates schema in the database if needed, adds any missing
// columns, and returns its row factory.
func (d *Database) Table(ctx context.Context, schema sqlconn.Table) (*record.Table, error) {
	conn, err := d.Conn()
	if err != nil {
		return nil, err
	}
	if err := conn.EnsureTable(ctx, schema); err != nil {
		return nil, err
	}
	return record.NewTable(schema, conn, d.logger), nil
}
