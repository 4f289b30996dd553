// Package storage implements the Storage contract: whole-state
// persistence of the database to a byte medium. Every Write replaces the
// full prior content; there is no partial-update primitive.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// JSON stores the whole state as a single JSON document on disk. Writes
// use the temp-file, fsync, rename pattern so a crashed write never leaves
// a half-written state behind.
type JSON struct {
	path   string
	indent string
}

// NewJSON opens a JSON file storage at path, creating missing parent
// directories and an empty file on first use. indent is the per-level
// indent string for the persisted document; empty means compact output.
func NewJSON(path, indent string) (*JSON, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	f.Close()
	return &JSON{path: path, indent: indent}, nil
}

// Read returns the persisted state, or (nil, nil) when the file is empty
// or absent. A file holding invalid JSON is an error, not an empty state.
func (s *JSON) Read() (types.State, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var state types.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	return state, nil
}

// Write persists the given state atomically, replacing prior content.
func (s *JSON) Write(state types.State) error {
	var raw []byte
	var err error
	if s.indent != "" {
		raw, err = json.MarshalIndent(state, "", s.indent)
	} else {
		raw, err = json.Marshal(state)
	}
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	return writeFileAtomic(s.path, raw)
}

// writeFileAtomic writes data to path using the temp-file, fsync, rename
// pattern.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing state: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
