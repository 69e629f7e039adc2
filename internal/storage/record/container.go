package record

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/louisbranch/sqlib/internal/game/identifier"
	"github.com/louisbranch/sqlib/internal/game/nbt"
	"github.com/louisbranch/sqlib/internal/game/pos"
	"github.com/louisbranch/sqlib/internal/game/text"
	apperrors "github.com/louisbranch/sqlib/internal/platform/errors"
	"github.com/louisbranch/sqlib/internal/storage/sqlconn"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// FieldStore reads and writes single columns of single rows.
// *sqlconn.Conn implements it.
type FieldStore interface {
	WriteField(ctx context.Context, table sqlconn.Table, id, field string, value any) error
	ReadField(ctx context.Context, table sqlconn.Table, id, field string, want sqlconn.ColumnType) (any, error)
}

// Container is a handle on one row. Its id, table and store never change.
type Container struct {
	id     string
	table  sqlconn.Table
	store  FieldStore
	logger *log.Logger
}

// NewContainer binds a handle to the row id of table. A nil logger logs
// through the standard logger.
func NewContainer(id string, table sqlconn.Table, store FieldStore, logger *log.Logger) *Container {
	return &Container{id: id, table: table, store: store, logger: logger}
}

// IDString returns the row id as stored.
func (c *Container) IDString() string {
	return c.id
}

// IDInt returns the row id as a decimal integer.
func (c *Container) IDInt() (int64, error) {
	n, err := strconv.ParseInt(c.id, 10, 64)
	if err != nil {
		return 0, c.idError("id is not a decimal integer", err)
	}
	return n, nil
}

// IDUUID returns the row id as a UUID. Only the dashed 36 character form is
// accepted.
func (c *Container) IDUUID() (uuid.UUID, error) {
	id, err := parseUUID(c.id)
	if err != nil {
		return uuid.Nil, c.idError("id is not a UUID", err)
	}
	return id, nil
}

// Table returns the schema of the row's table.
func (c *Container) Table() sqlconn.Table {
	return c.table
}

// parseUUID rejects the braced, urn and undashed forms uuid.Parse allows.
func parseUUID(s string) (uuid.UUID, error) {
	if len(s) != 36 {
		return uuid.Nil, fmt.Errorf("invalid UUID length: %d", len(s))
	}
	return uuid.Parse(s)
}

func (c *Container) requireID() error {
	if c.id == "" {
		return apperrors.WithMetadata(apperrors.CodeIDFormat, "id is required",
			map[string]string{"table": c.table.Name})
	}
	return nil
}

func (c *Container) idError(message string, cause error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeIDFormat, message,
		map[string]string{"table": c.table.Name, "id": c.id}, cause)
}

func (c *Container) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (c *Container) write(ctx context.Context, field string, value any) error {
	if err := c.requireID(); err != nil {
		return err
	}
	return c.store.WriteField(ctx, c.table, c.id, field, value)
}

func (c *Container) read(ctx context.Context, field string, want sqlconn.ColumnType) (any, error) {
	if err := requireField(field); err != nil {
		return nil, err
	}
	if err := c.requireID(); err != nil {
		return nil, err
	}
	return c.store.ReadField(ctx, c.table, c.id, field, want)
}

func requireField(field string) error {
	if field == "" {
		return apperrors.New(apperrors.CodeFieldRequired, "field name is required")
	}
	return nil
}

func requireValue(field, kind string) error {
	return apperrors.WithMetadata(apperrors.CodeValueRequired, kind+" value is required",
		map[string]string{"field": field})
}

func invalidValue(field, kind string, cause error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeInvalidValue, kind+" value is malformed",
		map[string]string{"field": field}, cause)
}

func (c *Container) formatError(field, kind string, cause error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeFormat, "stored "+kind+" is malformed",
		map[string]string{"table": c.table.Name, "id": c.id, "field": field}, cause)
}

// PutString stores s in a text column.
func (c *Container) PutString(ctx context.Context, field, s string) error {
	if err := requireField(field); err != nil {
		return err
	}
	return c.write(ctx, field, s)
}

// PutInt stores n in an integer column.
func (c *Container) PutInt(ctx context.Context, field string, n int32) error {
	if err := requireField(field); err != nil {
		return err
	}
	return c.write(ctx, field, n)
}

// PutLong stores n in a long column.
func (c *Container) PutLong(ctx context.Context, field string, n int64) error {
	if err := requireField(field); err != nil {
		return err
	}
	return c.write(ctx, field, n)
}

// PutDouble stores f in a double column.
func (c *Container) PutDouble(ctx context.Context, field string, f float64) error {
	if err := requireField(field); err != nil {
		return err
	}
	return c.write(ctx, field, f)
}

// PutBool stores b as the integer 1 or 0.
func (c *Container) PutBool(ctx context.Context, field string, b bool) error {
	if err := requireField(field); err != nil {
		return err
	}
	var n int32
	if b {
		n = 1
	}
	return c.write(ctx, field, n)
}

// PutBlockPos stores p in its packed long form.
func (c *Container) PutBlockPos(ctx context.Context, field string, p pos.BlockPos) error {
	if err := requireField(field); err != nil {
		return err
	}
	return c.write(ctx, field, p.AsLong())
}

// PutChunkPos stores p in its packed long form.
func (c *Container) PutChunkPos(ctx context.Context, field string, p pos.ChunkPos) error {
	if err := requireField(field); err != nil {
		return err
	}
	return c.write(ctx, field, p.ToLong())
}

// PutJSON stores doc as compact JSON text.
func (c *Container) PutJSON(ctx context.Context, field string, doc gjson.Result) error {
	if err := requireField(field); err != nil {
		return err
	}
	if !doc.Exists() {
		return requireValue(field, "json")
	}
	if !gjson.Valid(doc.Raw) {
		return invalidValue(field, "json", nil)
	}
	return c.write(ctx, field, string(pretty.Ugly([]byte(doc.Raw))))
}

// PutNBT stores tag as SNBT text.
func (c *Container) PutNBT(ctx context.Context, field string, tag nbt.Tag) error {
	if err := requireField(field); err != nil {
		return err
	}
	if tag == nil {
		return requireValue(field, "nbt")
	}
	if err := nbt.Validate(tag); err != nil {
		return invalidValue(field, "nbt", err)
	}
	return c.write(ctx, field, nbt.Format(tag))
}

// PutText stores component as JSON text.
func (c *Container) PutText(ctx context.Context, field string, component *text.Component) error {
	if err := requireField(field); err != nil {
		return err
	}
	if component == nil {
		return requireValue(field, "text")
	}
	serialized, err := text.Serialize(component)
	if err != nil {
		return fmt.Errorf("put text %s: %w", field, err)
	}
	return c.write(ctx, field, serialized)
}

// PutUUID stores id in its canonical string form.
func (c *Container) PutUUID(ctx context.Context, field string, id uuid.UUID) error {
	if err := requireField(field); err != nil {
		return err
	}
	return c.write(ctx, field, id.String())
}

// PutIdentifier stores id as namespace:path.
func (c *Container) PutIdentifier(ctx context.Context, field string, id identifier.Identifier) error {
	if err := requireField(field); err != nil {
		return err
	}
	if id.IsZero() {
		return requireValue(field, "identifier")
	}
	return c.write(ctx, field, id.String())
}

// Clear sets the field to NULL. The row itself stays.
func (c *Container) Clear(ctx context.Context, field string) error {
	if err := requireField(field); err != nil {
		return err
	}
	return c.write(ctx, field, nil)
}

// GetString returns the text stored in field.
func (c *Container) GetString(ctx context.Context, field string) (string, bool, error) {
	raw, err := c.read(ctx, field, sqlconn.Text)
	if err != nil {
		return "", false, err
	}
	s, ok := rawText(raw)
	return s, ok, nil
}

// GetInt returns the integer stored in field.
func (c *Container) GetInt(ctx context.Context, field string) (int32, bool, error) {
	raw, err := c.read(ctx, field, sqlconn.Int)
	if err != nil {
		return 0, false, err
	}
	n, ok, err := rawInt64(raw)
	if err != nil {
		return 0, false, c.formatError(field, "int", err)
	}
	if !ok {
		return 0, false, nil
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false, c.formatError(field, "int", fmt.Errorf("%d overflows int32", n))
	}
	return int32(n), true, nil
}

// GetLong returns the long stored in field. Drivers may hand back small
// values in a narrower type; those are widened.
func (c *Container) GetLong(ctx context.Context, field string) (int64, bool, error) {
	raw, err := c.read(ctx, field, sqlconn.Long)
	if err != nil {
		return 0, false, err
	}
	n, ok, err := rawInt64(raw)
	if err != nil {
		return 0, false, c.formatError(field, "long", err)
	}
	return n, ok, nil
}

// GetDouble returns the double stored in field.
func (c *Container) GetDouble(ctx context.Context, field string) (float64, bool, error) {
	raw, err := c.read(ctx, field, sqlconn.Double)
	if err != nil {
		return 0, false, err
	}
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	}
	s, _ := rawText(raw)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false, c.formatError(field, "double", err)
	}
	return f, true, nil
}

// GetBool reports whether the integer stored in field is positive. An
// absent field has no value.
func (c *Container) GetBool(ctx context.Context, field string) (bool, bool, error) {
	raw, err := c.read(ctx, field, sqlconn.Int)
	if err != nil {
		return false, false, err
	}
	n, ok, err := rawInt64(raw)
	if err != nil {
		return false, false, c.formatError(field, "bool", err)
	}
	if !ok {
		return false, false, nil
	}
	return n > 0, true, nil
}

// GetBlockPos unpacks the block position stored in field.
func (c *Container) GetBlockPos(ctx context.Context, field string) (pos.BlockPos, bool, error) {
	n, ok, err := c.GetLong(ctx, field)
	if err != nil || !ok {
		return pos.BlockPos{}, false, err
	}
	return pos.BlockPosFromLong(n), true, nil
}

// GetChunkPos unpacks the chunk position stored in field.
func (c *Container) GetChunkPos(ctx context.Context, field string) (pos.ChunkPos, bool, error) {
	n, ok, err := c.GetLong(ctx, field)
	if err != nil || !ok {
		return pos.ChunkPos{}, false, err
	}
	return pos.ChunkPosFromLong(n), true, nil
}

// GetJSON parses the JSON document stored in field.
func (c *Container) GetJSON(ctx context.Context, field string) (gjson.Result, bool, error) {
	s, ok, err := c.GetString(ctx, field)
	if err != nil || !ok {
		return gjson.Result{}, false, err
	}
	if !gjson.Valid(s) {
		return gjson.Result{}, false, c.formatError(field, "json", fmt.Errorf("invalid json"))
	}
	return gjson.Parse(s), true, nil
}

// GetNBT parses the SNBT stored in field. Text that does not parse is
// logged and reported as no value.
func (c *Container) GetNBT(ctx context.Context, field string) (nbt.Tag, bool, error) {
	s, ok, err := c.GetString(ctx, field)
	if err != nil || !ok {
		return nil, false, err
	}
	tag, err := nbt.Parse(s)
	if err != nil {
		c.logf("record: discard malformed nbt in %s.%s for %s: %v", c.table.Name, field, c.id, err)
		return nil, false, nil
	}
	return tag, true, nil
}

// GetText decodes the text component stored in field.
func (c *Container) GetText(ctx context.Context, field string) (*text.Component, bool, error) {
	s, ok, err := c.GetString(ctx, field)
	if err != nil || !ok {
		return nil, false, err
	}
	component, err := text.Deserialize(s)
	if err != nil {
		return nil, false, c.formatError(field, "text", err)
	}
	return component, true, nil
}

// GetUUID parses the UUID stored in field, which must be in dashed form.
func (c *Container) GetUUID(ctx context.Context, field string) (uuid.UUID, bool, error) {
	s, ok, err := c.GetString(ctx, field)
	if err != nil || !ok {
		return uuid.Nil, false, err
	}
	id, err := parseUUID(s)
	if err != nil {
		return uuid.Nil, false, c.formatError(field, "uuid", err)
	}
	return id, true, nil
}

// GetIdentifier parses the identifier stored in field.
func (c *Container) GetIdentifier(ctx context.Context, field string) (identifier.Identifier, bool, error) {
	s, ok, err := c.GetString(ctx, field)
	if err != nil || !ok {
		return identifier.Identifier{}, false, err
	}
	id, err := identifier.Parse(s)
	if err != nil {
		return identifier.Identifier{}, false, c.formatError(field, "identifier", err)
	}
	return id, true, nil
}

// rawText renders a driver value as text.
func rawText(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return fmt.Sprint(v), true
	}
}

// rawInt64 decodes an integer through its decimal text form, so narrower
// driver types and numeric strings widen to the full value.
func rawInt64(raw any) (int64, bool, error) {
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case int64:
		return v, true, nil
	}
	s, _ := rawText(raw)
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}
