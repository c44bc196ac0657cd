package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"primal/internal/compose"
)

func TestRunExport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "spiral.png")
	if err := run([]string{"-n", "50", "-layers", "all", "-color", "primes=#C00", "-export", out}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Fatalf("export not written: %v", err)
	}
}

func TestRunReturnsErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "spiral.png")
	err := run([]string{"-n", "999999999999", "-export", out})
	if !errors.Is(err, compose.ErrTooLarge) {
		t.Fatalf("run = %v, want ErrTooLarge", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("a rejected bound wrote %s", out)
	}
}
