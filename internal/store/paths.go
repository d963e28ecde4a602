package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	envHome = "STRIDE_HOME" // override for tests
	dirName = ".stride"     // default under $HOME
)

// DefaultDataDir returns the directory where record files are stored
// (~/.stride). It creates the directory with 0700 permissions if it does not
// exist.
func DefaultDataDir() (string, error) {
	if custom := os.Getenv(envHome); custom != "" {
		if err := os.MkdirAll(custom, 0o700); err != nil {
			return "", err
		}
		return custom, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user home: %w", err)
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
