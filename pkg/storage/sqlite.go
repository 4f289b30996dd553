package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// stateSchema holds the whole state as a single JSON blob in one row.
// The storage contract is read-whole/write-whole, so one row is all the
// schema a SQLite-backed state needs.
const stateSchema = `
CREATE TABLE IF NOT EXISTS larder_state (
	id    INTEGER PRIMARY KEY CHECK (id = 1),
	state TEXT NOT NULL
);`

// SQLite stores the whole state as a JSON blob in a single-row SQLite
// table. It implements io.Closer; the database closes it at shutdown.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite-backed storage at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite storage: %w", err)
	}
	if _, err := db.Exec(stateSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Read returns the persisted state, or (nil, nil) when nothing has been
// written yet.
func (s *SQLite) Read() (types.State, error) {
	var raw string
	err := s.db.QueryRow("SELECT state FROM larder_state WHERE id = 1").Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading sqlite state: %w", err)
	}
	var state types.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decoding sqlite state: %w", err)
	}
	return state, nil
}

// Write persists the given state, replacing prior content in a single
// upsert.
func (s *SQLite) Write(state types.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO larder_state (id, state) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET state = excluded.state`,
		string(raw))
	if err != nil {
		return fmt.Errorf("writing sqlite state: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
