// Package config provides configuration management for taskbook.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	tberrors "github.com/randalmurphal/taskbook/internal/errors"
)

const (
	// DirName is the per-user taskbook directory under $HOME.
	DirName = ".taskbook"
	// ConfigFileName is the config file inside DirName.
	ConfigFileName = "config.yaml"
	// JSONFileName is the default snapshot file for the json backend.
	JSONFileName = "taskbook.json"
	// SQLiteFileName is the default database file for the sqlite backend.
	SQLiteFileName = "taskbook.db"
)

// Backend selects the persistence backend.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

// ParseBackend parses a backend name. "sqlite3" and "db" are accepted aliases.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "json", "file":
		return BackendJSON, nil
	case "sqlite", "sqlite3", "db":
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want json or sqlite)", s)
	}
}

// Output formats for listing tasks.
const (
	FormatJSON  = "json"
	FormatTable = "table"
)

// StoreConfig configures where tasks are persisted.
type StoreConfig struct {
	Backend Backend `yaml:"backend"`
	// Path is the store file. Empty means <Dir>/taskbook.json or taskbook.db
	// depending on Backend.
	Path string `yaml:"path,omitempty"`
}

// OutputConfig configures list rendering.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// Config is the resolved taskbook configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Output OutputConfig `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendJSON,
		},
		Output: OutputConfig{
			Format: FormatJSON,
		},
	}
}

// Dir returns the taskbook directory, $HOME/.taskbook. Falls back to
// ./.taskbook when the home directory cannot be determined.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// StorePath returns the configured store path, or the per-backend default.
func (c *StoreConfig) StorePath() string {
	if c.Path != "" {
		return c.Path
	}
	if c.Backend == BackendSQLite {
		return filepath.Join(Dir(), SQLiteFileName)
	}
	return filepath.Join(Dir(), JSONFileName)
}

// Validate checks the configuration for unsupported values.
func (c *Config) Validate() error {
	if _, err := ParseBackend(string(c.Store.Backend)); err != nil {
		return tberrors.ErrConfigInvalid("store.backend", err.Error())
	}
	switch c.Output.Format {
	case FormatJSON, FormatTable:
	default:
		return tberrors.ErrConfigInvalid("output.format",
			fmt.Sprintf("unknown format %q (want %s or %s)", c.Output.Format, FormatJSON, FormatTable))
	}
	return nil
}
