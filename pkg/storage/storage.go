package storage

import (
	"github.com/mesh-intelligence/larder/pkg/types"
)

// New builds the storage backend selected by the config. The config is
// validated first, so callers get the sentinel validation errors from the
// types package on a malformed config.
func New(cfg types.Config) (types.Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Storage {
	case types.StorageMemory:
		return NewMemory(), nil
	case types.StorageSQLite:
		return NewSQLite(cfg.Path)
	default:
		return NewJSON(cfg.Path, cfg.Indent)
	}
}
