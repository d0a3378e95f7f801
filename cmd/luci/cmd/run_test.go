package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nightwing1978/luci-go/pkg/luci"
)

func TestRunFileSetsExitCodeTwoWhenFileMissing(t *testing.T) {
	exitCode = 0
	engine, err := luci.New()
	if err != nil {
		t.Fatalf("luci.New: %v", err)
	}
	if err := runFile(engine, filepath.Join(t.TempDir(), "missing.luci")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if exitCode != 2 {
		t.Errorf("exitCode = %d, want 2 for an unreadable file", exitCode)
	}
}

func TestRunFileSetsExitCodeOneOnProgramError(t *testing.T) {
	exitCode = 0
	path := filepath.Join(t.TempDir(), "bad.luci")
	if err := os.WriteFile(path, []byte(`let x = [1, 2][10];`), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	engine, err := luci.New()
	if err != nil {
		t.Fatalf("luci.New: %v", err)
	}
	if err := runFile(engine, path); err == nil {
		t.Fatal("expected a runtime error for an out-of-range index")
	}
	if exitCode != 1 {
		t.Errorf("exitCode = %d, want 1 for a program-level error", exitCode)
	}
}

func TestRunFileSucceedsAndLeavesExitCodeZero(t *testing.T) {
	exitCode = 0
	path := filepath.Join(t.TempDir(), "ok.luci")
	if err := os.WriteFile(path, []byte(`let x = 1 + 1;`), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	engine, err := luci.New()
	if err != nil {
		t.Fatalf("luci.New: %v", err)
	}
	if err := runFile(engine, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exitCode != 0 {
		t.Errorf("exitCode = %d, want 0 on success", exitCode)
	}
}

func TestRunFileCarriesExitBuiltinCodeThrough(t *testing.T) {
	exitCode = 0
	path := filepath.Join(t.TempDir(), "exit.luci")
	if err := os.WriteFile(path, []byte(`exit(9);`), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	engine, err := luci.New()
	if err != nil {
		t.Fatalf("luci.New: %v", err)
	}
	if err := runFile(engine, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exitCode != 9 {
		t.Errorf("exitCode = %d, want 9 from exit(9)", exitCode)
	}
}
