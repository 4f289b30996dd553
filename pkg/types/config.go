package types

import "errors"

// Config holds storage selection and parameters for opening a database.
type Config struct {
	Storage   string `json:"storage" yaml:"storage"`       // Storage backend name.
	Path      string `json:"path" yaml:"path"`             // File path for file-backed storages.
	CacheSize int    `json:"cache_size" yaml:"cache_size"` // Query cache capacity per table.
	Indent    string `json:"indent" yaml:"indent"`         // Indent string for the JSON storage ("" = compact).
}

// Supported storage names.
const (
	StorageJSON   = "json"
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// DefaultCacheCapacity is the query cache capacity used when Config leaves
// CacheSize at zero. A negative CacheSize means unbounded (no eviction).
const DefaultCacheCapacity = 10

// Config validation errors.
var (
	ErrStorageEmpty   = errors.New("storage must not be empty")
	ErrStorageUnknown = errors.New("unknown storage")
	ErrPathEmpty      = errors.New("path must not be empty for file-backed storage")
)

// knownStorages lists the storages that Validate accepts.
var knownStorages = map[string]bool{
	StorageJSON:   true,
	StorageMemory: true,
	StorageSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Storage == "" {
		return ErrStorageEmpty
	}
	if !knownStorages[c.Storage] {
		return ErrStorageUnknown
	}
	if c.Storage != StorageMemory && c.Path == "" {
		return ErrPathEmpty
	}
	return nil
}

// EffectiveCacheSize resolves CacheSize to the capacity handed to the
// query cache: the default when zero, unbounded when negative.
func (c Config) EffectiveCacheSize() int {
	if c.CacheSize == 0 {
		return DefaultCacheCapacity
	}
	return c.CacheSize
}
