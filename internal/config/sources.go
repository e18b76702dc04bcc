package config

import "fmt"

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceFile    ConfigSource = "file"
	SourceEnv     ConfigSource = "env"
	SourceFlag    ConfigSource = "flag"
)

// TrackedSource contains both the source type and the file path.
type TrackedSource struct {
	Source ConfigSource
	Path   string // File path or empty for defaults/env/flags
}

// String returns a human-readable source description.
func (ts TrackedSource) String() string {
	if ts.Path == "" {
		return string(ts.Source)
	}
	return fmt.Sprintf("%s: %s", ts.Source, ts.Path)
}

// Keys lists every configuration path in display order.
var Keys = []string{"store.backend", "store.path", "output.format"}

// TrackedConfig wraps a Config with source tracking.
type TrackedConfig struct {
	// Config is the merged configuration.
	Config *Config

	// Sources maps config paths to their source info.
	Sources map[string]TrackedSource
}

// NewTrackedConfig creates a new TrackedConfig with defaults.
func NewTrackedConfig() *TrackedConfig {
	return &TrackedConfig{
		Config:  Default(),
		Sources: make(map[string]TrackedSource),
	}
}

// SetSource records the source for a config path.
func (tc *TrackedConfig) SetSource(path string, source ConfigSource) {
	tc.Sources[path] = TrackedSource{Source: source}
}

// SetSourceWithPath records the source and file path for a config path.
func (tc *TrackedConfig) SetSourceWithPath(path string, source ConfigSource, filePath string) {
	tc.Sources[path] = TrackedSource{Source: source, Path: filePath}
}

// GetSource returns the full source info for a config path.
// Returns SourceDefault if no source is recorded.
func (tc *TrackedConfig) GetSource(path string) TrackedSource {
	if ts, ok := tc.Sources[path]; ok {
		return ts
	}
	return TrackedSource{Source: SourceDefault}
}

// Get returns the string value of a config path.
func (tc *TrackedConfig) Get(path string) string {
	cfg := tc.Config
	switch path {
	case "store.backend":
		return string(cfg.Store.Backend)
	case "store.path":
		return cfg.Store.StorePath()
	case "output.format":
		return cfg.Output.Format
	default:
		return ""
	}
}

// set applies a single string value to a config path.
// Returns an error for unknown paths and unparseable values.
func (tc *TrackedConfig) set(path, value string) error {
	cfg := tc.Config
	switch path {
	case "store.backend":
		b, err := ParseBackend(value)
		if err != nil {
			return err
		}
		cfg.Store.Backend = b
	case "store.path":
		cfg.Store.Path = value
	case "output.format":
		cfg.Output.Format = value
	default:
		return fmt.Errorf("unknown config key %q", path)
	}
	return nil
}
