package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func sampleState() types.State {
	return types.State{
		"pantry": {
			"1": {"name": "bread", "qty": float64(3)},
			"2": {"name": "milk"},
		},
	}
}

func TestJSONReadEmpty(t *testing.T) {
	s, err := NewJSON(filepath.Join(t.TempDir(), "db.json"), "")
	require.NoError(t, err)

	state, err := s.Read()
	require.NoError(t, err)
	assert.Nil(t, state, "fresh storage should read as empty")
}

func TestJSONRoundTrip(t *testing.T) {
	s, err := NewJSON(filepath.Join(t.TempDir(), "db.json"), "")
	require.NoError(t, err)

	require.NoError(t, s.Write(sampleState()))

	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)
}

func TestJSONWriteReplacesPriorContent(t *testing.T) {
	s, err := NewJSON(filepath.Join(t.TempDir(), "db.json"), "")
	require.NoError(t, err)

	require.NoError(t, s.Write(sampleState()))
	require.NoError(t, s.Write(types.State{"other": {}}))

	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, types.State{"other": {}}, got)
}

func TestJSONCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "db.json")
	_, err := NewJSON(path, "")
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err, "storage file should exist after open")
}

func TestJSONCorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewJSON(path, "")
	require.NoError(t, err)

	_, err = s.Read()
	assert.Error(t, err, "corrupt state must surface, not read as empty")
}

func TestJSONIndentedOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := NewJSON(path, "  ")
	require.NoError(t, err)

	require.NoError(t, s.Write(sampleState()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  ")

	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)
}

func TestJSONLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSON(filepath.Join(dir, "db.json"), "")
	require.NoError(t, err)
	require.NoError(t, s.Write(sampleState()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the database file should remain")
}

func TestMemoryReadEmpty(t *testing.T) {
	s := NewMemory()
	state, err := s.Read()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestMemoryDoesNotAliasCallers(t *testing.T) {
	s := NewMemory()
	in := sampleState()
	require.NoError(t, s.Write(in))

	// Mutating the written state must not leak into storage.
	in["pantry"]["1"]["name"] = "changed"
	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, "bread", got["pantry"]["1"]["name"])

	// Mutating a read result must not leak either.
	got["pantry"]["1"]["name"] = "changed"
	again, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, "bread", again["pantry"]["1"]["name"])
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sqlite")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	state, err := s.Read()
	require.NoError(t, err)
	assert.Nil(t, state, "fresh storage should read as empty")

	require.NoError(t, s.Write(sampleState()))
	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)

	// Second write replaces, not appends.
	require.NoError(t, s.Write(types.State{"other": {}}))
	got, err = s.Read()
	require.NoError(t, err)
	assert.Equal(t, types.State{"other": {}}, got)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sqlite")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Write(sampleState()))
	require.NoError(t, s.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.Read()
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)
}

func TestNewFromConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     types.Config
		want    any
		wantErr error
	}{
		{
			name: "json",
			cfg:  types.Config{Storage: types.StorageJSON, Path: filepath.Join(dir, "a.json")},
			want: (*JSON)(nil),
		},
		{
			name: "memory",
			cfg:  types.Config{Storage: types.StorageMemory},
			want: (*Memory)(nil),
		},
		{
			name: "sqlite",
			cfg:  types.Config{Storage: types.StorageSQLite, Path: filepath.Join(dir, "a.sqlite")},
			want: (*SQLite)(nil),
		},
		{
			name:    "invalid config",
			cfg:     types.Config{Storage: "bolt"},
			wantErr: types.ErrStorageUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
		})
	}
}
