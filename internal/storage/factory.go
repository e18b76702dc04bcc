package storage

import (
	"fmt"

	"github.com/randalmurphal/taskbook/internal/config"
	tberrors "github.com/randalmurphal/taskbook/internal/errors"
)

// NewBackend creates a storage backend based on the configuration.
// The backend is not opened until Load.
func NewBackend(cfg config.StoreConfig) (Backend, error) {
	switch cfg.Backend {
	case config.BackendJSON, "":
		return NewFileBackend(cfg.StorePath()), nil
	case config.BackendSQLite:
		return NewDatabaseBackend(cfg.StorePath()), nil
	default:
		return nil, tberrors.ErrConfigInvalid("store.backend", fmt.Sprintf("unknown backend %q", cfg.Backend))
	}
}
