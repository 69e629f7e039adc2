package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes the YAML file at path over target. Fields absent from the
// file keep the values already in target, which lets callers layer a file on
// top of environment defaults. An empty path is a no-op.
func LoadYAML(path string, target any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if target == nil {
		return errors.New("config target is required")
	}
	// #nosec G304 -- the config path is an operator-supplied flag.
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}
