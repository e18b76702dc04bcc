package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	tberrors "github.com/randalmurphal/taskbook/internal/errors"
)

// DefaultConfigPath returns $HOME/.taskbook/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(Dir(), ConfigFileName)
}

// Load loads configuration with source tracking.
// Load order (later sources override earlier):
//  1. Built-in defaults
//  2. Config file (path, or ~/.taskbook/config.yaml when path is empty)
//
// Environment variables and flags are layered on top with Apply.
// A missing default config file is ignored; a missing explicit one is an error.
func Load(path string) (*TrackedConfig, error) {
	tc := NewTrackedConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if err := mergeFromFile(tc, path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no config file", "path", path)
		} else {
			return nil, tberrors.ErrConfigInvalid(path, err.Error())
		}
	}

	return tc, nil
}

// mergeFromFile merges configuration from a YAML file into tc.
func mergeFromFile(tc *TrackedConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Parse into a nested map so only keys present in the file override.
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	for section, values := range raw {
		for key, value := range values {
			configPath := section + "." + key
			if err := tc.set(configPath, fmt.Sprint(value)); err != nil {
				return err
			}
			tc.SetSourceWithPath(configPath, SourceFile, path)
		}
	}

	slog.Debug("loaded config file", "path", path)
	return nil
}

// Render returns the resolved configuration as YAML, annotating each value
// with where it came from.
func (tc *TrackedConfig) Render() ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	sections := map[string]*yaml.Node{}

	for _, key := range Keys {
		section, name, _ := strings.Cut(key, ".")
		sec, ok := sections[section]
		if !ok {
			sec = &yaml.Node{Kind: yaml.MappingNode}
			sections[section] = sec
			root.Content = append(root.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: section}, sec)
		}
		sec.Content = append(sec.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&yaml.Node{
				Kind:        yaml.ScalarNode,
				Value:       tc.Get(key),
				LineComment: "# " + tc.GetSource(key).String(),
			})
	}

	out, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return out, nil
}
