package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultDataDirEnvOverride(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "state")
	t.Setenv(envHome, custom)

	dir, err := DefaultDataDir()
	if err != nil {
		t.Fatalf("DefaultDataDir() error: %v", err)
	}
	if dir != custom {
		t.Errorf("DefaultDataDir() = %q, want %q", dir, custom)
	}
	if info, err := os.Stat(custom); err != nil || !info.IsDir() {
		t.Errorf("DefaultDataDir() did not create %q", custom)
	}
}

func TestDefaultDataDirUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(envHome, "")
	t.Setenv("HOME", home)

	dir, err := DefaultDataDir()
	if err != nil {
		t.Fatalf("DefaultDataDir() error: %v", err)
	}
	if dir != filepath.Join(home, dirName) {
		t.Errorf("DefaultDataDir() = %q, want under %q", dir, home)
	}
}
