// Package larder implements an embedded, schema-less document store. A
// Database partitions one whole-state Storage into named tables; each
// table owns document identity assignment, the CRUD/search/update
// operations, and a query-result cache.
package larder

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/mesh-intelligence/larder/pkg/storage"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// DefaultTableName is the table the Database's own document operations
// delegate to.
const DefaultTableName = "_default"

// Database is the facade over one storage target. Table handles share the
// storage by reference; cross-table consistency is limited to each table
// partitioning the same whole-state blob by name.
type Database struct {
	storage   types.Storage
	cacheSize int

	mu     sync.Mutex
	tables map[string]*Table
	closed bool
}

// New creates a database on the given storage with the default query
// cache capacity per table.
func New(s types.Storage) *Database {
	return &Database{
		storage:   s,
		cacheSize: types.DefaultCacheCapacity,
		tables:    make(map[string]*Table),
	}
}

// Open builds the storage selected by the config and creates a database
// on it.
func Open(cfg types.Config) (*Database, error) {
	s, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	db := New(s)
	db.cacheSize = cfg.EffectiveCacheSize()
	return db, nil
}

// Table returns the handle for the named table, creating it on first
// access. The handle is cached; repeated calls return the same instance
// so its query cache is shared. Nothing is persisted until the table is
// first written to.
func (db *Database) Table(name string) *Table {
	db.mu.Lock()
	defer db.mu.Unlock()

	t, ok := db.tables[name]
	if !ok {
		t = newTable(db.storage, name, db.cacheSize)
		db.tables[name] = t
	}
	return t
}

// Tables returns the names of all tables present in the persisted state,
// sorted.
func (db *Database) Tables() ([]string, error) {
	if err := db.check(); err != nil {
		return nil, err
	}
	state, err := db.storage.Read()
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}
	names := make([]string, 0, len(state))
	for name := range state {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DropTable deletes the named table's partition from storage and discards
// its handle. Dropping an absent table is a no-op.
func (db *Database) DropTable(name string) error {
	if err := db.check(); err != nil {
		return err
	}
	db.mu.Lock()
	if t, ok := db.tables[name]; ok {
		t.ClearCache()
		delete(db.tables, name)
	}
	db.mu.Unlock()

	state, err := db.storage.Read()
	if err != nil {
		return fmt.Errorf("reading state: %w", err)
	}
	if _, ok := state[name]; !ok {
		return nil
	}
	delete(state, name)
	if err := db.storage.Write(state); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

// DropTables deletes every table by persisting an empty state.
func (db *Database) DropTables() error {
	if err := db.check(); err != nil {
		return err
	}
	db.mu.Lock()
	for _, t := range db.tables {
		t.ClearCache()
	}
	db.tables = make(map[string]*Table)
	db.mu.Unlock()

	if err := db.storage.Write(types.State{}); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

// Close closes the underlying storage when it holds resources. Close is
// idempotent; all database operations after Close return ErrClosed.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil
	}
	db.closed = true
	db.tables = make(map[string]*Table)

	if closer, ok := db.storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (db *Database) check() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return types.ErrClosed
	}
	return nil
}
