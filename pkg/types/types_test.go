package types

import (
	"errors"
	"testing"
)

func TestDocumentCopyIsDeep(t *testing.T) {
	doc := NewDocument(1, map[string]any{
		"name": "bread",
		"meta": map[string]any{"origin": "rye"},
		"tags": []any{"baked"},
	})

	cp := doc.Copy()
	cp.Fields["name"] = "milk"
	cp.Fields["meta"].(map[string]any)["origin"] = "wheat"
	cp.Fields["tags"].([]any)[0] = "dairy"

	if doc.Fields["name"] != "bread" {
		t.Fatalf("copy aliased scalar field: %v", doc.Fields["name"])
	}
	if doc.Fields["meta"].(map[string]any)["origin"] != "rye" {
		t.Fatalf("copy aliased nested map")
	}
	if doc.Fields["tags"].([]any)[0] != "baked" {
		t.Fatalf("copy aliased nested slice")
	}
}

func TestCloneFieldsNil(t *testing.T) {
	got := CloneFields(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil map, got %v", got)
	}
}

func TestStateClone(t *testing.T) {
	state := State{
		"pantry": {"1": {"name": "bread"}},
	}
	cp := state.Clone()
	cp["pantry"]["1"]["name"] = "milk"

	if state["pantry"]["1"]["name"] != "bread" {
		t.Fatalf("clone aliased document fields")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "valid json", cfg: Config{Storage: StorageJSON, Path: "db.json"}},
		{name: "valid memory without path", cfg: Config{Storage: StorageMemory}},
		{name: "valid sqlite", cfg: Config{Storage: StorageSQLite, Path: "db.sqlite"}},
		{name: "empty storage", cfg: Config{}, wantErr: ErrStorageEmpty},
		{name: "unknown storage", cfg: Config{Storage: "bolt"}, wantErr: ErrStorageUnknown},
		{name: "json without path", cfg: Config{Storage: StorageJSON}, wantErr: ErrPathEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEffectiveCacheSize(t *testing.T) {
	if got := (Config{}).EffectiveCacheSize(); got != DefaultCacheCapacity {
		t.Fatalf("zero CacheSize: got %d, want default %d", got, DefaultCacheCapacity)
	}
	if got := (Config{CacheSize: 5}).EffectiveCacheSize(); got != 5 {
		t.Fatalf("explicit CacheSize: got %d, want 5", got)
	}
	if got := (Config{CacheSize: -1}).EffectiveCacheSize(); got != -1 {
		t.Fatalf("unbounded CacheSize: got %d, want -1", got)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "int equals float of same value", a: 1, b: float64(1), want: true},
		{name: "different numbers", a: 1, b: float64(2), want: false},
		{name: "strings", a: "a", b: "a", want: true},
		{name: "number vs string", a: 1, b: "1", want: false},
		{name: "slices compare structurally", a: []any{"a"}, b: []any{"a"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Fatalf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
