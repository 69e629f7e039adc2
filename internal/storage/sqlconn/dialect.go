package sqlconn

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the SQL flavor spoken by a connection.
type Dialect int

const (
	SQLite Dialect = iota
	MySQL
	Postgres
)

// ParseDialect maps a backend name to its dialect.
func ParseDialect(value string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return 0, fmt.Errorf("unsupported dialect %q", value)
	}
}

// String returns the OpenTelemetry db.system value for the dialect.
func (d Dialect) String() string {
	switch d {
	case SQLite:
		return "sqlite"
	case MySQL:
		return "mysql"
	case Postgres:
		return "postgresql"
	default:
		return "unknown"
	}
}

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	switch d {
	case MySQL:
		return "mysql"
	case Postgres:
		return "pgx"
	default:
		return "sqlite"
	}
}

// Quote returns ident quoted as an identifier. Callers pass names that
// already passed identifier validation.
func (d Dialect) Quote(ident string) string {
	if d == MySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

// Placeholder returns the bind parameter marker for the n-th argument,
// counting from 1.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// NativeType returns the column type name used in DDL.
func (d Dialect) NativeType(t ColumnType) string {
	switch d {
	case MySQL:
		switch t {
		case Int:
			return "INT"
		case Long:
			return "BIGINT"
		case Double:
			return "DOUBLE"
		default:
			return "TEXT"
		}
	case Postgres:
		switch t {
		case Int:
			return "INTEGER"
		case Long:
			return "BIGINT"
		case Double:
			return "DOUBLE PRECISION"
		default:
			return "TEXT"
		}
	default:
		switch t {
		case Int, Long:
			return "INTEGER"
		case Double:
			return "REAL"
		default:
			return "TEXT"
		}
	}
}

// keyType is NativeType for the primary key column. MySQL cannot index an
// unbounded TEXT column, and integer ids are bound as int64 on every engine.
func (d Dialect) keyType(t ColumnType) string {
	switch {
	case d == MySQL && t == Text:
		return "VARCHAR(255)"
	case d != SQLite && t == Int:
		return d.NativeType(Long)
	}
	return d.NativeType(t)
}

func (d Dialect) createTableSQL(t Table) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s %s PRIMARY KEY)",
		d.Quote(t.Name), d.Quote(IDColumn), d.keyType(t.IDType))
}

func (d Dialect) addColumnSQL(t Table, c Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
		d.Quote(t.Name), d.Quote(c.Name), d.NativeType(c.Type))
}

func (d Dialect) upsertSQL(table, field string) string {
	t, id, f := d.Quote(table), d.Quote(IDColumn), d.Quote(field)
	if d == MySQL {
		return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?) ON DUPLICATE KEY UPDATE %s = VALUES(%s)",
			t, id, f, f, f)
	}
	return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (%s, %s) ON CONFLICT (%s) DO UPDATE SET %s = excluded.%s",
		t, id, f, d.Placeholder(1), d.Placeholder(2), id, f, f)
}

func (d Dialect) insertIgnoreSQL(table string) string {
	t, id := d.Quote(table), d.Quote(IDColumn)
	if d == MySQL {
		return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES (?)", t, id)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING", t, id, d.Placeholder(1), id)
}

func (d Dialect) selectFieldSQL(table, field string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		d.Quote(field), d.Quote(table), d.Quote(IDColumn), d.Placeholder(1))
}

func (d Dialect) existsSQL(table string) string {
	return fmt.Sprintf("SELECT 1 FROM %s WHERE %s = %s",
		d.Quote(table), d.Quote(IDColumn), d.Placeholder(1))
}

func (d Dialect) deleteSQL(table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		d.Quote(table), d.Quote(IDColumn), d.Placeholder(1))
}

func (d Dialect) listIDsSQL(table string) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		d.Quote(IDColumn), d.Quote(table), d.Quote(IDColumn))
}

func (d Dialect) pageIDsSQL(table string, after bool, limit int) string {
	t, id := d.Quote(table), d.Quote(IDColumn)
	if after {
		return fmt.Sprintf("SELECT %s FROM %s WHERE %s > %s ORDER BY %s LIMIT %d",
			id, t, id, d.Placeholder(1), id, limit)
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT %d", id, t, id, limit)
}
