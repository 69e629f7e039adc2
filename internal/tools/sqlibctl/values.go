package sqlibctl

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/louisbranch/sqlib/internal/game/identifier"
	"github.com/louisbranch/sqlib/internal/game/nbt"
	"github.com/louisbranch/sqlib/internal/game/pos"
	"github.com/louisbranch/sqlib/internal/game/text"
	"github.com/louisbranch/sqlib/internal/storage/record"
	"github.com/louisbranch/sqlib/internal/storage/sqlconn"
	"github.com/tidwall/gjson"
)

// valueType converts between command-line text and one container type.
type valueType struct {
	native sqlconn.ColumnType
	put    func(ctx context.Context, c *record.Container, field, value string) error
	get    func(ctx context.Context, c *record.Container, field string) (string, bool, error)
}

var valueTypes = map[string]valueType{
	"string": {
		native: sqlconn.Text,
		put: func(ctx context.Context, c *record.Container, field, value string) error {
			return c.PutString(ctx, field, value)
		},
		get: func(ctx context.Context, c *record.Container, field string) (string, bool, error) {
			return c.GetString(ctx, field)
		},
	},
	"int": {
		native: sqlconn.Int,
		put: func(ctx context.Context, c *record.Container, field, value string) error {
			n, err := strconv.ParseInt(value, 10, 32)
			if err != nil {
				return fmt.Errorf("parse int: %w", err)
			}
			return c.PutInt(ctx, field, int32(n))
		},
		get: func(ctx context.Context, c *record.Container, field string) (string, bool, error) {
			n, ok, err := c.GetInt(ctx, field)
			return strconv.FormatInt(int64(n), 10), ok, err
		},
	},
	"long": {
		native: sqlconn.Long,
		put: func(ctx context.Context, c *record.Container, field, value string) error {
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("parse long: %w", err)
			}
			return c.PutLong(ctx, field, n)
		},
		get: func(ctx context.Context, c *record.Container, field string) (string, bool, error) {
			n, ok, err := c.GetLong(ctx, field)
			return strconv.FormatInt(n, 10), ok, err
		},
	},
	"double": {
		native: sqlconn.Double,
		put: func(ctx context.Context, c *record.Container, field, value string) error {
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("parse double: %w", err)
			}
			return c.PutDouble(ctx, field, f)
		},
		get: func(ctx context.Context, c *record.Container, field string) (string, bool, error) {
			f, ok, err := c.GetDouble(ctx, field)
			return strconv.FormatFloat(f, 'g', -1, 64), ok, err
		},
	},
	"bool": {
		native: sqlconn.Int,
		put: func(ctx context.Context, c *record.Container, field, value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("parse bool: %w", err)
			}
			return c.PutBool(ctx, field, b)
		},
		get: func(ctx context.Context, c *record.Container, field string) (string, bool, error) {
			b, ok, err := c.GetBool(ctx, field)
			return strconv.FormatBool(b), ok, err
		},
	},
	"blockpos": {
		native: sqlconn.Long,
		put: func(ctx context.Context, c *record.Container, field, value string) error {
			coords, err := parseCoords(value, 3)
			if err != nil {
				return fmt.Errorf("parse block pos: %w", err)
			}
			p := pos.NewBlockPos(coords[0], coords[1], coords[2])
			if !p.InPackingRange() {
				return fmt.Errorf("block pos %s is outside the packable range", p)
			}
			return c.PutBlockPos(ctx, field, p)
		},
		get: func(ctx context.Context, c *record.Container, field string) (string, bool, error) {
			p, ok, err := c.GetBlockPos(ctx, field)
			return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z), ok, err
		},
	},
	"chunkpos": {
		native: sqlconn.Long,
		put: func(ctx context.Context, c *record.Container, field, value string) error {
			coords, err := parseCoords(value, 2)
			if err != nil {
				return fmt.Errorf("parse chunk pos: %w", err)
			}
			return c.PutChunkPos(ctx, field, pos.NewChunkPos(coords[0], coords[1]))
		},
		get: func(ctx context.Context, c *record.Container, field string) (string, bool, error) {
			p, ok, err := c.GetChunkPos(ctx, field)
			return fmt.Sprintf("%d,%d", p.X, p.Z), ok, err
		},
	},
	"json": {
		native: sqlconn.Text,
		put: func(ctx context.Context, c *record.Container, field, value string) error {
			return c.PutJSON(ctx, field, gjson.Parse(value))
		},
		get: func(ctx context.Context, c *record.Container, field string) (string, bool, error) {
			doc, ok, err := c.GetJSON(ctx, field)
			return doc.Raw, ok, err
		},
	},
	"nbt": {
		native: sqlconn.Text,
		put: func(ctx context.Context, c *record.Container, field, value string) error {
			tag, err := nbt.Parse(value)
			if err != nil {
				return fmt.Errorf("parse nbt: %w", err)
			}
			return c.PutNBT(ctx, field, tag)
		},
		get: func(ctx context.Context, c *record.Container, field string) (string, bool, error) {
			tag, ok, err := c.GetNBT(ctx, field)
			if err != nil || !ok {
				return "", ok, err
			}
			return nbt.Format(tag), true, nil
		},
	},
	"text": {
		native: sqlconn.Text,
		put: func(ctx context.Context, c *record.Container, field, value string) error {
			component, err := text.Deserialize(value)
			if err != nil {
				return fmt.Errorf("parse text: %w", err)
			}
			return c.PutText(ctx, field, component)
		},
		get: func(ctx context.Context, c *record.Container, field string) (string, bool, error) {
			component, ok, err := c.GetText(ctx, field)
			if err != nil || !ok {
				return "", ok, err
			}
			s, err := text.Serialize(component)
			return s, err == nil, err
		},
	},
	"uuid": {
		native: sqlconn.Text,
		put: func(ctx context.Context, c *record.Container, field, value string) error {
			id, err := uuid.Parse(value)
			if err != nil {
				return fmt.Errorf("parse uuid: %w", err)
			}
			return c.PutUUID(ctx, field, id)
		},
		get: func(ctx context.Context, c *record.Container, field string) (string, bool, error) {
			id, ok, err := c.GetUUID(ctx, field)
			return id.String(), ok, err
		},
	},
	"identifier": {
		native: sqlconn.Text,
		put: func(ctx context.Context, c *record.Container, field, value string) error {
			id, err := identifier.Parse(value)
			if err != nil {
				return fmt.Errorf("parse identifier: %w", err)
			}
			return c.PutIdentifier(ctx, field, id)
		},
		get: func(ctx context.Context, c *record.Container, field string) (string, bool, error) {
			id, ok, err := c.GetIdentifier(ctx, field)
			return id.String(), ok, err
		},
	},
}

func lookupValueType(name string) (valueType, error) {
	vt, ok := valueTypes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return valueType{}, fmt.Errorf("unknown value type %q (want %s)", name, strings.Join(valueTypeNames(), "|"))
	}
	return vt, nil
}

func valueTypeNames() []string {
	names := make([]string, 0, len(valueTypes))
	for name := range valueTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseCoords(value string, n int) ([]int32, error) {
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated integers, got %q", n, value)
	}
	coords := make([]int32, n)
	for i, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, err
		}
		coords[i] = int32(v)
	}
	return coords, nil
}
