// Package filex resolves on-disk locations for the durable client store.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) with owner-only group access if it does
// not exist yet and returns its absolute path. A relative dir is resolved
// against the current working directory.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// DataFile returns the absolute path of name inside dataDir, creating
// dataDir on the way. Absolute names are returned unchanged.
func DataFile(dataDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := EnsureDir(filepath.Dir(name)); err != nil {
			return "", err
		}
		return name, nil
	}

	dir, err := EnsureDir(dataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
