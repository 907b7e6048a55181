// Package filex contains filesystem helpers for the client's local data files.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) with owner/group-only permissions.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// EnsureParentDir makes sure the directory holding path exists, so a database
// file can be created there. Bare file names need nothing.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return EnsureDir(dir)
}
