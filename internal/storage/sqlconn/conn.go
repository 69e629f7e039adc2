package sqlconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/sqlib/internal/platform/errors"
	"github.com/louisbranch/sqlib/internal/platform/storage/sqlitemigrate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/sqlib/internal/storage/sqlconn"

// Conn is a dialect-aware handle over a shared *sql.DB. It is safe for
// concurrent use.
type Conn struct {
	db      *sql.DB
	dialect Dialect
	tracer  trace.Tracer
}

// New wraps db. The Conn does not own db; closing it is the caller's job.
func New(db *sql.DB, dialect Dialect) *Conn {
	return &Conn{
		db:      db,
		dialect: dialect,
		tracer:  otel.Tracer(tracerName),
	}
}

// DB returns the underlying handle.
func (c *Conn) DB() *sql.DB {
	return c.db
}

// Dialect returns the SQL flavor of the connection.
func (c *Conn) Dialect() Dialect {
	return c.dialect
}

func (c *Conn) start(ctx context.Context, op string, t Table, field string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", c.dialect.String()),
		attribute.String("db.sql.table", t.Name),
	}
	if field != "" {
		attrs = append(attrs, attribute.String("sqlib.field", field))
	}
	return c.tracer.Start(ctx, "sqlconn."+op, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}

func (c *Conn) ready() error {
	if c == nil || c.db == nil {
		return apperrors.New(apperrors.CodeNotConnected, "connection is not configured")
	}
	return nil
}

// EnsureTable creates the table if needed and adds any missing columns.
// Existing columns are left as they are.
func (c *Conn) EnsureTable(ctx context.Context, t Table) (err error) {
	if err := c.ready(); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	ctx, span := c.start(ctx, "EnsureTable", t, "")
	defer func() { finish(span, err) }()

	if _, err := c.db.ExecContext(ctx, c.dialect.createTableSQL(t)); err != nil {
		return fmt.Errorf("create table %s: %w", t.Name, err)
	}
	for _, column := range t.Columns {
		if _, err := c.db.ExecContext(ctx, c.dialect.addColumnSQL(t, column)); err != nil {
			if sqlitemigrate.IsAlreadyExistsError(err) {
				continue
			}
			return fmt.Errorf("add column %s.%s: %w", t.Name, column.Name, err)
		}
	}
	return nil
}

func (c *Conn) column(t Table, field string) (Column, error) {
	if field == "" {
		return Column{}, apperrors.New(apperrors.CodeFieldRequired, "field name is required")
	}
	column, ok := t.Column(field)
	if !ok {
		return Column{}, apperrors.WithMetadata(apperrors.CodeUnknownField, "field is not a column of the table",
			map[string]string{"table": t.Name, "field": field})
	}
	return column, nil
}

// WriteField stores value in one column of the row with the given id,
// creating the row if it does not exist. A nil value writes NULL.
func (c *Conn) WriteField(ctx context.Context, t Table, id, field string, value any) (err error) {
	if err := c.ready(); err != nil {
		return err
	}
	if _, err := c.column(t, field); err != nil {
		return err
	}
	idArg, err := t.idArg(id)
	if err != nil {
		return err
	}
	ctx, span := c.start(ctx, "WriteField", t, field)
	defer func() { finish(span, err) }()

	if _, err := c.db.ExecContext(ctx, c.dialect.upsertSQL(t.Name, field), idArg, value); err != nil {
		return fmt.Errorf("write %s.%s: %w", t.Name, field, err)
	}
	return nil
}

// ReadField returns the raw driver value of one column, or nil when the
// column is NULL or the row does not exist. Byte slices read for Text are
// returned as strings.
func (c *Conn) ReadField(ctx context.Context, t Table, id, field string, want ColumnType) (value any, err error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if _, err := c.column(t, field); err != nil {
		return nil, err
	}
	idArg, err := t.idArg(id)
	if err != nil {
		return nil, err
	}
	ctx, span := c.start(ctx, "ReadField", t, field)
	span.SetAttributes(attribute.String("sqlib.column_type", want.String()))
	defer func() { finish(span, err) }()

	var raw any
	row := c.db.QueryRowContext(ctx, c.dialect.selectFieldSQL(t.Name, field), idArg)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s.%s: %w", t.Name, field, err)
	}
	if b, ok := raw.([]byte); ok && want == Text {
		return string(b), nil
	}
	return raw, nil
}

// CreateRow inserts an empty row and reports whether it was new.
func (c *Conn) CreateRow(ctx context.Context, t Table, id string) (created bool, err error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	idArg, err := t.idArg(id)
	if err != nil {
		return false, err
	}
	ctx, span := c.start(ctx, "CreateRow", t, "")
	defer func() { finish(span, err) }()

	result, err := c.db.ExecContext(ctx, c.dialect.insertIgnoreSQL(t.Name), idArg)
	if err != nil {
		return false, fmt.Errorf("create row in %s: %w", t.Name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create row in %s: %w", t.Name, err)
	}
	return n > 0, nil
}

// RowExists reports whether a row with id exists.
func (c *Conn) RowExists(ctx context.Context, t Table, id string) (exists bool, err error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	idArg, err := t.idArg(id)
	if err != nil {
		return false, err
	}
	ctx, span := c.start(ctx, "RowExists", t, "")
	defer func() { finish(span, err) }()

	var found int
	if err := c.db.QueryRowContext(ctx, c.dialect.existsSQL(t.Name), idArg).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check row in %s: %w", t.Name, err)
	}
	return true, nil
}

// DeleteRow removes the row with id and reports whether one was removed.
func (c *Conn) DeleteRow(ctx context.Context, t Table, id string) (deleted bool, err error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	idArg, err := t.idArg(id)
	if err != nil {
		return false, err
	}
	ctx, span := c.start(ctx, "DeleteRow", t, "")
	defer func() { finish(span, err) }()

	result, err := c.db.ExecContext(ctx, c.dialect.deleteSQL(t.Name), idArg)
	if err != nil {
		return false, fmt.Errorf("delete row from %s: %w", t.Name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete row from %s: %w", t.Name, err)
	}
	return n > 0, nil
}

// RowIDs lists every row id in ascending order, rendered as text.
func (c *Conn) RowIDs(ctx context.Context, t Table) (ids []string, err error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	ctx, span := c.start(ctx, "RowIDs", t, "")
	defer func() { finish(span, err) }()

	rows, err := c.db.QueryContext(ctx, c.dialect.listIDsSQL(t.Name))
	if err != nil {
		return nil, fmt.Errorf("list rows in %s: %w", t.Name, err)
	}
	return scanIDs(rows, t)
}

// RowIDsAfter lists at most limit row ids greater than after, in ascending
// order. An empty after starts from the first row.
func (c *Conn) RowIDsAfter(ctx context.Context, t Table, after string, limit int) (ids []string, err error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	var args []any
	if after != "" {
		idArg, err := t.idArg(after)
		if err != nil {
			return nil, err
		}
		args = append(args, idArg)
	}
	ctx, span := c.start(ctx, "RowIDsAfter", t, "")
	defer func() { finish(span, err) }()

	rows, err := c.db.QueryContext(ctx, c.dialect.pageIDsSQL(t.Name, after != "", limit), args...)
	if err != nil {
		return nil, fmt.Errorf("page rows in %s: %w", t.Name, err)
	}
	return scanIDs(rows, t)
}

func scanIDs(rows *sql.Rows, t Table) ([]string, error) {
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var raw any
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan row id: %w", err)
		}
		ids = append(ids, idString(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows in %s: %w", t.Name, err)
	}
	return ids, nil
}

func idString(raw any) string {
	switch v := raw.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
