// Package sqlibctl implements the sqlib command: it reads, writes and clears
// single fields of stored records from the shell.
package sqlibctl

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/sqlib/internal/platform/cmd"
	"github.com/louisbranch/sqlib/internal/platform/config"
	"github.com/louisbranch/sqlib/internal/platform/timeouts"
)

// Config holds sqlib command configuration.
type Config struct {
	ConfigPath string        `env:"SQLIB_CONFIG"`
	Backend    string        `env:"SQLIB_BACKEND" envDefault:"sqlite"`
	Name       string        `env:"SQLIB_DATABASE_NAME" envDefault:"sqlib"`
	Dir        string        `env:"SQLIB_DATABASE_DIR" envDefault:"data"`
	Address    string        `env:"SQLIB_DATABASE_ADDRESS"`
	User       string        `env:"SQLIB_DATABASE_USER"`
	Password   string        `env:"SQLIB_DATABASE_PASSWORD"`
	SSLMode    string        `env:"SQLIB_DATABASE_SSLMODE"`
	Timeout    time.Duration `env:"SQLIB_TIMEOUT" envDefault:"30s"`

	Table      string
	IDType     string
	ID         string
	Columns    string
	Type       string
	Migrations string
	PageSize   int
	PageToken  string

	Command string
	Field   string
	Value   string
}

// fileConfig is the YAML layout accepted by -config.
type fileConfig struct {
	Backend  string `yaml:"backend"`
	Database struct {
		Name      string `yaml:"name"`
		Directory string `yaml:"directory"`
		Address   string `yaml:"address"`
		User      string `yaml:"user"`
		Password  string `yaml:"password"`
		SSLMode   string `yaml:"sslmode"`
	} `yaml:"database"`
	Table struct {
		Name    string   `yaml:"name"`
		IDType  string   `yaml:"id_type"`
		Columns []string `yaml:"columns"`
	} `yaml:"table"`
	Migrations string        `yaml:"migrations"`
	Timeout    time.Duration `yaml:"timeout"`
}

// ParseConfig layers environment defaults, the optional YAML file and
// flags, in that order of precedence from lowest to highest.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		Backend: "sqlite",
		Name:    "sqlib",
		Dir:     "data",
		IDType:  "text",
		Type:    "string",
		Timeout: timeouts.Command,
	}

	fs.StringVar(&cfg.ConfigPath, "config", "", "YAML config file (default: SQLIB_CONFIG)")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "database backend: sqlite, mysql or postgres (default: SQLIB_BACKEND or sqlite)")
	fs.StringVar(&cfg.Name, "name", cfg.Name, "database name (default: SQLIB_DATABASE_NAME or sqlib)")
	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "sqlite database directory (default: SQLIB_DATABASE_DIR or data)")
	fs.StringVar(&cfg.Address, "address", "", "server address host:port for mysql and postgres")
	fs.StringVar(&cfg.User, "user", "", "server user for mysql and postgres")
	fs.StringVar(&cfg.Table, "table", "", "table name")
	fs.StringVar(&cfg.IDType, "id-type", cfg.IDType, "id column type: text or long")
	fs.StringVar(&cfg.ID, "id", "", "row id")
	fs.StringVar(&cfg.Columns, "columns", "", "table columns as name:type,... (default: the field, typed from -type)")
	fs.StringVar(&cfg.Type, "type", cfg.Type, "value type: "+strings.Join(valueTypeNames(), "|"))
	fs.StringVar(&cfg.Migrations, "migrations", "", "directory of *.sql migrations applied on connect (sqlite only)")
	fs.IntVar(&cfg.PageSize, "page-size", 0, "ids per page for the ids command (0 = default)")
	fs.StringVar(&cfg.PageToken, "page-token", "", "page token printed by a previous ids command")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")

	if err := cmd.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if cfg.ConfigPath != "" {
		var file fileConfig
		if err := config.LoadYAML(cfg.ConfigPath, &file); err != nil {
			return Config{}, err
		}
		applyFile(&cfg, file, set)
	}

	rest := fs.Args()
	if len(rest) > 0 {
		cfg.Command = rest[0]
	}
	if len(rest) > 1 {
		cfg.Field = rest[1]
	}
	if len(rest) > 2 {
		cfg.Value = strings.Join(rest[2:], " ")
	}
	return cfg, nil
}

func applyFile(cfg *Config, file fileConfig, set map[string]bool) {
	apply := func(flagName string, dst *string, value string) {
		if value != "" && !set[flagName] {
			*dst = value
		}
	}
	apply("backend", &cfg.Backend, file.Backend)
	apply("name", &cfg.Name, file.Database.Name)
	apply("dir", &cfg.Dir, file.Database.Directory)
	apply("address", &cfg.Address, file.Database.Address)
	apply("user", &cfg.User, file.Database.User)
	apply("table", &cfg.Table, file.Table.Name)
	apply("id-type", &cfg.IDType, file.Table.IDType)
	apply("columns", &cfg.Columns, strings.Join(file.Table.Columns, ","))
	apply("migrations", &cfg.Migrations, file.Migrations)
	if file.Database.Password != "" {
		cfg.Password = file.Database.Password
	}
	if file.Database.SSLMode != "" {
		cfg.SSLMode = file.Database.SSLMode
	}
	if file.Timeout > 0 && !set["timeout"] {
		cfg.Timeout = file.Timeout
	}
}

func (c Config) validate() error {
	switch c.Command {
	case "get", "put", "clear":
		if c.Field == "" {
			return fmt.Errorf("%s requires a field", c.Command)
		}
		if c.ID == "" {
			return fmt.Errorf("-id is required for %s", c.Command)
		}
	case "delete":
		if c.ID == "" {
			return fmt.Errorf("-id is required for delete")
		}
	case "ids":
	case "":
		return fmt.Errorf("command is required: get|put|clear|delete|ids")
	default:
		return fmt.Errorf("unknown command %q", c.Command)
	}
	if c.Command == "put" && c.Value == "" && c.Type != "string" {
		return fmt.Errorf("put requires a value")
	}
	if strings.TrimSpace(c.Table) == "" {
		return fmt.Errorf("-table is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("-timeout must be positive")
	}
	return nil
}
