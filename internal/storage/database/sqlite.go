package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/sqlib/internal/storage/sqlconn"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const sqlitePragmas = "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"

// SQLite stores the database in <Directory>/<Name>.db.
type SQLite struct {
	DatabaseName string
	Directory    string
}

// NewSQLite opens a SQLite database file named name.db under directory,
// creating the directory when needed.
func NewSQLite(ctx context.Context, name, directory string, opts ...Option) (*Database, error) {
	return New(ctx, SQLite{DatabaseName: name, Directory: directory}, opts...)
}

func (s SQLite) Name() string { return s.DatabaseName }

func (s SQLite) Dialect() sqlconn.Dialect { return sqlconn.SQLite }

// Path returns the database file path.
func (s SQLite) Path() string {
	dir := s.Directory
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return filepath.Join(dir, s.DatabaseName+".db")
}

func (s SQLite) validate() error {
	name := strings.TrimSpace(s.DatabaseName)
	if name == "" {
		return fmt.Errorf("sqlite database name is required")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("sqlite database name %q must not contain path separators", name)
	}
	return nil
}

// DSN returns the file path with the connection pragmas.
func (s SQLite) DSN() (string, error) {
	if err := s.validate(); err != nil {
		return "", err
	}
	return filepath.Clean(s.Path()) + sqlitePragmas, nil
}

func (s SQLite) prepare() error {
	if err := s.validate(); err != nil {
		return err
	}
	dir := filepath.Dir(s.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	return nil
}

// describeSQLiteError names the file when SQLite cannot open it; the
// driver's own message does not.
func describeSQLiteError(backend Backend, err error) error {
	s, ok := backend.(SQLite)
	if !ok {
		return err
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CANTOPEN {
		return fmt.Errorf("cannot open %s: %w", s.Path(), err)
	}
	return err
}
