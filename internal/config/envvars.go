package config

import (
	tberrors "github.com/randalmurphal/taskbook/internal/errors"
)

// EnvVarMapping defines the mapping between environment variables and config paths.
var EnvVarMapping = map[string]string{
	"TASKBOOK_BACKEND": "store.backend",
	"TASKBOOK_PATH":    "store.path",
	"TASKBOOK_FORMAT":  "output.format",
}

// EnvVar returns the environment variable for a config path, or "" if the
// path has none.
func EnvVar(configPath string) string {
	for envVar, p := range EnvVarMapping {
		if p == configPath {
			return envVar
		}
	}
	return ""
}

// Apply sets values keyed by config path and records source for each.
// Empty values are skipped. An invalid value is reported under the name the
// user typed: the environment variable for SourceEnv, the path otherwise.
func (tc *TrackedConfig) Apply(values map[string]string, source ConfigSource) error {
	for configPath, value := range values {
		if value == "" {
			continue
		}
		if err := tc.set(configPath, value); err != nil {
			field := configPath
			if source == SourceEnv {
				if envVar := EnvVar(configPath); envVar != "" {
					field = envVar
				}
			}
			return tberrors.ErrConfigInvalid(field, err.Error())
		}
		tc.SetSource(configPath, source)
	}
	return nil
}
