// Package main provides the sqlib command.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/louisbranch/sqlib/internal/platform/cmd"
	"github.com/louisbranch/sqlib/internal/platform/config"
	"github.com/louisbranch/sqlib/internal/tools/sqlibctl"
)

func main() {
	cfg, err := sqlibctl.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := cmd.Execute(cmd.ServiceSQLib, cfg.Timeout, func(ctx context.Context) error {
		return sqlibctl.Run(ctx, cfg, os.Stdout, os.Stderr)
	}); err != nil {
		config.Exitf("Error: %v", err)
	}
}
