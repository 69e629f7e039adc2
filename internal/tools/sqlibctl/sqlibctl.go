package sqlibctl

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/louisbranch/sqlib/internal/storage/database"
	"github.com/louisbranch/sqlib/internal/storage/sqlconn"
)

// Run executes one sqlib command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	vt, err := lookupValueType(cfg.Type)
	if err != nil {
		return err
	}
	schema, err := cfg.schema(vt)
	if err != nil {
		return err
	}
	backend, err := cfg.backend()
	if err != nil {
		return err
	}

	opts := []database.Option{database.WithLogger(log.New(errOut, "sqlib: ", log.LstdFlags))}
	if cfg.Migrations != "" {
		opts = append(opts, database.WithMigrations(os.DirFS(cfg.Migrations), "."))
	}
	db, err := database.New(ctx, backend, opts...)
	if err != nil {
		return err
	}
	if err := db.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if err := db.Disconnect(); err != nil {
			fmt.Fprintf(errOut, "Error: disconnect: %v\n", err)
		}
	}()

	table, err := db.Table(ctx, schema)
	if err != nil {
		return err
	}

	switch cfg.Command {
	case "ids":
		page, err := table.Page(ctx, cfg.PageSize, cfg.PageToken)
		if err != nil {
			return err
		}
		for _, id := range page.IDs {
			fmt.Fprintln(out, id)
		}
		if page.NextPageToken != "" {
			fmt.Fprintf(errOut, "next page: -page-token %s\n", page.NextPageToken)
		}
		return nil
	case "delete":
		return table.Delete(ctx, cfg.ID)
	}

	c := table.Container(cfg.ID)
	switch cfg.Command {
	case "put":
		return vt.put(ctx, c, cfg.Field, cfg.Value)
	case "clear":
		return c.Clear(ctx, cfg.Field)
	default:
		value, ok, err := vt.get(ctx, c, cfg.Field)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(errOut, "%s has no value for %s\n", cfg.ID, cfg.Field)
			return nil
		}
		fmt.Fprintln(out, value)
		return nil
	}
}

// schema builds the table definition from -columns, or from the field and
// its value type when no columns are given.
func (c Config) schema(vt valueType) (sqlconn.Table, error) {
	idType, err := sqlconn.ParseColumnType(c.IDType)
	if err != nil {
		return sqlconn.Table{}, fmt.Errorf("id type: %w", err)
	}
	columns, err := sqlconn.ParseColumns(c.Columns)
	if err != nil {
		return sqlconn.Table{}, err
	}
	if len(columns) == 0 && c.Field != "" {
		columns = []sqlconn.Column{{Name: c.Field, Type: vt.native}}
	}
	return sqlconn.NewTable(c.Table, idType, columns...)
}

func (c Config) backend() (database.Backend, error) {
	dialect, err := sqlconn.ParseDialect(c.Backend)
	if err != nil {
		return nil, err
	}
	switch dialect {
	case sqlconn.MySQL:
		return database.MySQL{
			DatabaseName: c.Name,
			Address:      c.Address,
			User:         c.User,
			Password:     c.Password,
		}, nil
	case sqlconn.Postgres:
		return database.Postgres{
			DatabaseName: c.Name,
			Address:      c.Address,
			User:         c.User,
			Password:     c.Password,
			SSLMode:      strings.TrimSpace(c.SSLMode),
		}, nil
	default:
		return database.SQLite{DatabaseName: c.Name, Directory: c.Dir}, nil
	}
}
