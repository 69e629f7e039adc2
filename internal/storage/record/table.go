package record

import (
	"context"
	"log"

	"github.com/google/uuid"
	apperrors "github.com/louisbranch/sqlib/internal/platform/errors"
	"github.com/louisbranch/sqlib/internal/storage/cursor"
	"github.com/louisbranch/sqlib/internal/storage/sqlconn"
)

// RowStore adds row lifecycle operations to FieldStore.
type RowStore interface {
	FieldStore
	CreateRow(ctx context.Context, table sqlconn.Table, id string) (bool, error)
	RowExists(ctx context.Context, table sqlconn.Table, id string) (bool, error)
	DeleteRow(ctx context.Context, table sqlconn.Table, id string) (bool, error)
	RowIDs(ctx context.Context, table sqlconn.Table) ([]string, error)
	RowIDsAfter(ctx context.Context, table sqlconn.Table, after string, limit int) ([]string, error)
}

var pageSizes = cursor.PageSizeConfig{Default: 100, Max: 1000}

// Page is one slice of a table's row ids.
type Page struct {
	IDs []string
	// NextPageToken continues the listing; empty on the last page.
	NextPageToken string
}

// Table hands out containers for the rows of one table.
type Table struct {
	schema sqlconn.Table
	store  RowStore
	logger *log.Logger
}

// NewTable returns a row factory for schema. The schema must already exist
// in the store.
func NewTable(schema sqlconn.Table, store RowStore, logger *log.Logger) *Table {
	return &Table{schema: schema, store: store, logger: logger}
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.schema.Name
}

// Schema returns the table definition.
func (t *Table) Schema() sqlconn.Table {
	return t.schema
}

// Container binds a handle to id without touching the store. Writes through
// the handle create the row on demand.
func (t *Table) Container(id string) *Container {
	return NewContainer(id, t.schema, t.store, t.logger)
}

// Create ensures a row with id exists and returns its handle.
func (t *Table) Create(ctx context.Context, id string) (*Container, error) {
	if id == "" {
		return nil, apperrors.WithMetadata(apperrors.CodeIDFormat, "id is required",
			map[string]string{"table": t.schema.Name})
	}
	if _, err := t.store.CreateRow(ctx, t.schema, id); err != nil {
		return nil, err
	}
	return t.Container(id), nil
}

// CreateUUID creates a row keyed by a fresh random UUID.
func (t *Table) CreateUUID(ctx context.Context) (*Container, error) {
	return t.Create(ctx, uuid.NewString())
}

// Get returns the handle for an existing row.
func (t *Table) Get(ctx context.Context, id string) (*Container, error) {
	exists, err := t.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, t.notFound(id)
	}
	return t.Container(id), nil
}

// Exists reports whether a row with id exists.
func (t *Table) Exists(ctx context.Context, id string) (bool, error) {
	return t.store.RowExists(ctx, t.schema, id)
}

// Delete removes the row with id.
func (t *Table) Delete(ctx context.Context, id string) error {
	deleted, err := t.store.DeleteRow(ctx, t.schema, id)
	if err != nil {
		return err
	}
	if !deleted {
		return t.notFound(id)
	}
	return nil
}

// IDs lists the ids of every row.
func (t *Table) IDs(ctx context.Context) ([]string, error) {
	return t.store.RowIDs(ctx, t.schema)
}

// Page lists up to pageSize row ids in ascending order, starting after the
// position encoded in pageToken. A non-positive pageSize uses the default.
func (t *Table) Page(ctx context.Context, pageSize int, pageToken string) (Page, error) {
	limit := cursor.ClampPageSize(pageSize, pageSizes)
	scope := t.scope()

	var after string
	if pageToken != "" {
		c, err := cursor.Decode(pageToken)
		if err == nil {
			err = cursor.ValidateScope(c, scope)
		}
		if err != nil {
			return Page{}, apperrors.WrapWithMetadata(apperrors.CodePageToken, "invalid page token",
				map[string]string{"table": t.schema.Name}, err)
		}
		after = c.After
	}

	ids, err := t.store.RowIDsAfter(ctx, t.schema, after, limit+1)
	if err != nil {
		return Page{}, err
	}
	if len(ids) <= limit {
		return Page{IDs: ids}, nil
	}
	ids = ids[:limit]
	token, err := cursor.Encode(cursor.New(ids[len(ids)-1], scope))
	if err != nil {
		return Page{}, err
	}
	return Page{IDs: ids, NextPageToken: token}, nil
}

func (t *Table) scope() string {
	return t.schema.Name + ":" + t.schema.IDType.String()
}

// Containers returns a handle for every row.
func (t *Table) Containers(ctx context.Context) ([]*Container, error) {
	ids, err := t.IDs(ctx)
	if err != nil {
		return nil, err
	}
	containers := make([]*Container, 0, len(ids))
	for _, id := range ids {
		containers = append(containers, t.Container(id))
	}
	return containers, nil
}

func (t *Table) notFound(id string) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound, "row not found",
		map[string]string{"table": t.schema.Name, "id": id})
}
