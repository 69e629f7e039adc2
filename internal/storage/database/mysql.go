package database

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/louisbranch/sqlib/internal/storage/sqlconn"
)

// MySQL reaches a MySQL or MariaDB server over TCP.
type MySQL struct {
	DatabaseName string
	Address      string
	User         string
	Password     string
}

func (m MySQL) Name() string { return m.DatabaseName }

func (m MySQL) Dialect() sqlconn.Dialect { return sqlconn.MySQL }

// DSN returns a go-sql-driver DSN.
func (m MySQL) DSN() (string, error) {
	if strings.TrimSpace(m.DatabaseName) == "" {
		return "", fmt.Errorf("mysql database name is required")
	}
	if strings.TrimSpace(m.Address) == "" {
		return "", fmt.Errorf("mysql address is required")
	}
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = m.Address
	cfg.DBName = m.DatabaseName
	cfg.User = m.User
	cfg.Passwd = m.Password
	return cfg.FormatDSN(), nil
}
