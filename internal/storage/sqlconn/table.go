package sqlconn

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/sqlib/internal/platform/errors"
)

// IDColumn is the primary key column of every table.
const IDColumn = "id"

// ColumnType is a native storage type.
type ColumnType int

const (
	Text ColumnType = iota
	Int
	Long
	Double
)

var columnTypeNames = map[ColumnType]string{
	Text:   "text",
	Int:    "int",
	Long:   "long",
	Double: "double",
}

func (t ColumnType) String() string {
	if name, ok := columnTypeNames[t]; ok {
		return name
	}
	return "ColumnType(" + strconv.Itoa(int(t)) + ")"
}

// ParseColumnType accepts the names printed by String plus a few SQL
// spellings.
func ParseColumnType(value string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "text", "string", "varchar":
		return Text, nil
	case "int", "integer":
		return Int, nil
	case "long", "bigint":
		return Long, nil
	case "double", "real", "float":
		return Double, nil
	default:
		return 0, fmt.Errorf("unknown column type %q", value)
	}
}

// Column is one named, typed column.
type Column struct {
	Name string
	Type ColumnType
}

// Table describes a keyed table: an id primary key plus value columns.
type Table struct {
	Name    string
	IDType  ColumnType
	Columns []Column
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewTable returns a validated table definition.
func NewTable(name string, idType ColumnType, columns ...Column) (Table, error) {
	t := Table{Name: name, IDType: idType, Columns: columns}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Validate checks names and types.
func (t Table) Validate() error {
	if !identifierPattern.MatchString(t.Name) {
		return schemaError("invalid table name", "table", t.Name)
	}
	switch t.IDType {
	case Text, Int, Long:
	default:
		return schemaError("invalid id type", "id_type", t.IDType.String())
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if !identifierPattern.MatchString(c.Name) {
			return schemaError("invalid column name", "column", c.Name)
		}
		key := strings.ToLower(c.Name)
		if key == IDColumn {
			return schemaError("column name is reserved", "column", c.Name)
		}
		if seen[key] {
			return schemaError("duplicate column", "column", c.Name)
		}
		seen[key] = true
		if _, ok := columnTypeNames[c.Type]; !ok {
			return schemaError("invalid column type", "column", c.Name)
		}
	}
	return nil
}

// Column returns the column named name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ParseColumns parses "name:type,name:type" column lists.
func ParseColumns(value string) ([]Column, error) {
	var columns []Column
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, typeName, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("column %q: want name:type", part)
		}
		columnType, err := ParseColumnType(typeName)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		columns = append(columns, Column{Name: strings.TrimSpace(name), Type: columnType})
	}
	return columns, nil
}

// idArg converts a row id to the bind value for the id column.
func (t Table) idArg(id string) (any, error) {
	if id == "" {
		return nil, apperrors.WithMetadata(apperrors.CodeIDFormat, "id is required",
			map[string]string{"table": t.Name})
	}
	if t.IDType == Text {
		return id, nil
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeIDFormat, "id is not an integer",
			map[string]string{"table": t.Name, "id": id}, err)
	}
	return n, nil
}

func schemaError(message, key, value string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidSchema, message, map[string]string{key: value})
}
