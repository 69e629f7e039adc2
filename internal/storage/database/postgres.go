package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/louisbranch/sqlib/internal/storage/sqlconn"
)

// Postgres reaches a PostgreSQL server over TCP.
type Postgres struct {
	DatabaseName string
	Address      string
	User         string
	Password     string
	// SSLMode is passed through as sslmode; empty leaves the driver default.
	SSLMode string
}

func (p Postgres) Name() string { return p.DatabaseName }

func (p Postgres) Dialect() sqlconn.Dialect { return sqlconn.Postgres }

// DSN returns a postgres:// connection URL.
func (p Postgres) DSN() (string, error) {
	if strings.TrimSpace(p.DatabaseName) == "" {
		return "", fmt.Errorf("postgres database name is required")
	}
	if strings.TrimSpace(p.Address) == "" {
		return "", fmt.Errorf("postgres address is required")
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   p.Address,
		Path:   "/" + p.DatabaseName,
	}
	if p.User != "" {
		if p.Password != "" {
			u.User = url.UserPassword(p.User, p.Password)
		} else {
			u.User = url.User(p.User)
		}
	}
	if p.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{p.SSLMode}}.Encode()
	}
	return u.String(), nil
}

func (p Postgres) open(_ context.Context, dsn string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	return stdlib.OpenDB(*cfg), nil
}
