// Package integration provides CLI integration tests for larder.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// larderBin is the path to the built larder binary.
	larderBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetLarderBin sets the path to the larder binary (called from TestMain).
func SetLarderBin(path string) {
	larderBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config
// directory and database file.
type TestEnv struct {
	t         *testing.T
	TempDir   string
	ConfigDir string
	DataPath  string
}

// NewTestEnv creates a new isolated test environment using JSON storage.
func NewTestEnv(t *testing.T) *TestEnv {
	return NewTestEnvStorage(t, "json", "larder.json")
}

// NewTestEnvStorage creates an isolated environment on the given storage
// backend, with the database file under the environment's temp directory.
func NewTestEnvStorage(t *testing.T, storage, dataFile string) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build larder: %v", buildErr)
	}
	if larderBin == "" {
		t.Fatal("larder binary not built (larderBin is empty)")
	}

	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "config")
	dataPath := filepath.Join(tempDir, dataFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "storage: " + storage + "\npath: " + dataPath + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:         t,
		TempDir:   tempDir,
		ConfigDir: configDir,
		DataPath:  dataPath,
	}
}

// CmdResult holds the result of a larder command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunLarder executes the larder CLI with the given arguments.
// Returns stdout, stderr, and exit code.
func (e *TestEnv) RunLarder(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.ConfigDir}, args...)
	cmd := exec.Command(larderBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run larder: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunLarder executes the larder CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunLarder(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunLarder(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("larder %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// Document mirrors the engine's document shape for JSON parsing.
type Document struct {
	ID     int            `json:"ID"`
	Fields map[string]any `json:"Fields"`
}

// ReadJSONFile reads and parses a JSON file from the data directory.
func ReadJSONFile[T any](t *testing.T, path string) T {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	return ParseJSON[T](t, string(data))
}
