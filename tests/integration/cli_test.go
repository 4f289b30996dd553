// CLI integration tests for larder.
// Each command invocation is a separate process, so these tests also
// exercise persistence across process boundaries.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestMain builds the larder binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "larder-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	binPath := filepath.Join(tmpDir, "larder")
	SetLarderBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/larder")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{
			Err:    err,
			Output: string(output),
		})
		os.Exit(1)
	}

	code := m.Run()

	os.RemoveAll(tmpDir)

	os.Exit(code)
}

func TestInitCreatesStorage(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunLarder("init")
	if result.Stdout == "" {
		t.Error("expected init output message")
	}

	if _, err := os.Stat(env.DataPath); err != nil {
		t.Errorf("expected data file at %s: %v", env.DataPath, err)
	}
}

func TestVersion(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunLarder("version")
	if !strings.HasPrefix(result.Stdout, "larder ") {
		t.Errorf("unexpected version output: %q", result.Stdout)
	}
}

func TestInsertAndGet(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunLarder("insert", "--json", `{"name": "bread", "qty": 3}`)
	inserted := ParseJSON[map[string]int](t, result.Stdout)
	if inserted["id"] != 1 {
		t.Errorf("expected first insert to get ID 1, got %d", inserted["id"])
	}

	result = env.MustRunLarder("get", "--json", "--id", "1")
	docs := ParseJSON[[]Document](t, result.Stdout)
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Fields["name"] != "bread" {
		t.Errorf("expected name=bread, got %v", docs[0].Fields["name"])
	}

	result = env.MustRunLarder("get", "--json", "--where", "name=bread")
	docs = ParseJSON[[]Document](t, result.Stdout)
	if len(docs) != 1 || docs[0].ID != 1 {
		t.Errorf("where lookup returned %v", docs)
	}
}

func TestGetMissingDocumentFails(t *testing.T) {
	env := NewTestEnv(t)

	result := env.RunLarder("get", "--id", "42")
	if result.ExitCode == 0 {
		t.Error("expected non-zero exit for a missing document")
	}
}

func TestListWithFilter(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunLarder("insert", `{"name": "bread", "qty": 3}`)
	env.MustRunLarder("insert", `{"name": "milk", "qty": 1}`)
	env.MustRunLarder("insert", `{"name": "flour", "qty": 3}`)

	result := env.MustRunLarder("list", "--json")
	docs := ParseJSON[[]Document](t, result.Stdout)
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	result = env.MustRunLarder("list", "--json", "--where", "qty=3")
	docs = ParseJSON[[]Document](t, result.Stdout)
	if len(docs) != 2 {
		t.Fatalf("expected 2 matching documents, got %d", len(docs))
	}
	for _, doc := range docs {
		if doc.Fields["qty"] != float64(3) {
			t.Errorf("filter leaked document %v", doc)
		}
	}
}

func TestUpdate(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunLarder("insert", `{"name": "bread", "qty": 3}`)
	env.MustRunLarder("insert", `{"name": "milk", "qty": 1}`)

	result := env.MustRunLarder("update", "--json", "--where", "name=bread", `{"qty": 0, "stale": true}`)
	updated := ParseJSON[map[string][]int](t, result.Stdout)
	if len(updated["updated"]) != 1 || updated["updated"][0] != 1 {
		t.Errorf("expected updated=[1], got %v", updated["updated"])
	}

	result = env.MustRunLarder("get", "--json", "--id", "1")
	docs := ParseJSON[[]Document](t, result.Stdout)
	if docs[0].Fields["stale"] != true || docs[0].Fields["qty"] != float64(0) {
		t.Errorf("update not applied: %v", docs[0].Fields)
	}

	// The other document is untouched.
	result = env.MustRunLarder("get", "--json", "--id", "2")
	docs = ParseJSON[[]Document](t, result.Stdout)
	if docs[0].Fields["qty"] != float64(1) {
		t.Errorf("update leaked to document 2: %v", docs[0].Fields)
	}
}

func TestRemove(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunLarder("insert", `{"name": "bread"}`)
	env.MustRunLarder("insert", `{"name": "milk"}`)

	result := env.MustRunLarder("remove", "--json", "--where", "name=bread")
	removed := ParseJSON[map[string][]int](t, result.Stdout)
	if len(removed["removed"]) != 1 || removed["removed"][0] != 1 {
		t.Errorf("expected removed=[1], got %v", removed["removed"])
	}

	result = env.MustRunLarder("list", "--json")
	docs := ParseJSON[[]Document](t, result.Stdout)
	if len(docs) != 1 || docs[0].Fields["name"] != "milk" {
		t.Errorf("unexpected remaining documents: %v", docs)
	}
}

func TestRemoveRequiresSelector(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunLarder("insert", `{"name": "bread"}`)

	result := env.RunLarder("remove")
	if result.ExitCode == 0 {
		t.Error("expected remove without a selector to fail")
	}

	// Nothing was deleted.
	result = env.MustRunLarder("list", "--json")
	docs := ParseJSON[[]Document](t, result.Stdout)
	if len(docs) != 1 {
		t.Errorf("expected 1 document, got %d", len(docs))
	}
}

func TestTruncate(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunLarder("insert", `{"name": "bread"}`)
	env.MustRunLarder("insert", `{"name": "milk"}`)

	env.MustRunLarder("truncate")

	result := env.MustRunLarder("list", "--json")
	docs := ParseJSON[[]Document](t, result.Stdout)
	if len(docs) != 0 {
		t.Errorf("expected empty table, got %v", docs)
	}
}

func TestNamedTables(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunLarder("insert", "--table", "pantry", `{"name": "flour"}`)
	env.MustRunLarder("insert", "--table", "fridge", `{"name": "milk"}`)

	result := env.MustRunLarder("tables", "--json")
	names := ParseJSON[[]string](t, result.Stdout)
	if len(names) != 2 || names[0] != "fridge" || names[1] != "pantry" {
		t.Errorf("expected sorted table names [fridge pantry], got %v", names)
	}

	result = env.MustRunLarder("list", "--json", "--table", "pantry")
	docs := ParseJSON[[]Document](t, result.Stdout)
	if len(docs) != 1 || docs[0].Fields["name"] != "flour" {
		t.Errorf("pantry listing wrong: %v", docs)
	}
}

func TestIDsSurviveProcessRestarts(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunLarder("insert", `{"n": 1}`)
	env.MustRunLarder("insert", `{"n": 2}`)
	env.MustRunLarder("remove", "--id", "2")

	// A fresh process recomputes the next ID from the stored documents.
	result := env.MustRunLarder("insert", "--json", `{"n": 3}`)
	inserted := ParseJSON[map[string]int](t, result.Stdout)
	if inserted["id"] != 2 {
		t.Errorf("expected next ID 2 after removing the max, got %d", inserted["id"])
	}
}

func TestJSONFileLayout(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunLarder("insert", "--table", "pantry", `{"name": "flour"}`)

	// The persisted file is table -> id -> fields.
	state := ReadJSONFile[map[string]map[string]map[string]any](t, env.DataPath)
	doc, ok := state["pantry"]["1"]
	if !ok {
		t.Fatalf("expected pantry/1 in state, got %v", state)
	}
	if doc["name"] != "flour" {
		t.Errorf("expected name=flour, got %v", doc["name"])
	}
}

func TestSQLiteStorage(t *testing.T) {
	env := NewTestEnvStorage(t, "sqlite", "larder.db")

	env.MustRunLarder("insert", `{"name": "bread"}`)
	env.MustRunLarder("insert", "--table", "pantry", `{"name": "flour"}`)

	result := env.MustRunLarder("get", "--json", "--where", "name=bread")
	docs := ParseJSON[[]Document](t, result.Stdout)
	if len(docs) != 1 || docs[0].ID != 1 {
		t.Errorf("sqlite get returned %v", docs)
	}

	result = env.MustRunLarder("tables", "--json")
	names := ParseJSON[[]string](t, result.Stdout)
	if len(names) != 2 {
		t.Errorf("expected 2 tables, got %v", names)
	}
}
