// Package filex contains filesystem helpers used by the client for its
// database, log and export locations.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir with all parents and returns it unchanged.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// EnsureParentDir makes sure the directory that will hold path exists.
func EnsureParentDir(path string) error {
	_, err := EnsureDir(filepath.Dir(path))
	return err
}

// WriteFile writes data to dir/name and returns the full path.
func WriteFile(dir, name string, data []byte) (string, error) {
	if _, err := EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
