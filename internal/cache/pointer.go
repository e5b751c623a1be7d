// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// UpdatePointer repoints the alias symlink at targetDir, replacing any
// previous alias unconditionally. The new link is created under a
// temporary name and renamed over the alias so a consumer following the
// alias never observes it missing or half-written. Callers run this as
// the last step of a fetch.
func UpdatePointer(aliasPath, targetDir string) error {
	dir := filepath.Dir(aliasPath)
	tmp := filepath.Join(dir, "."+filepath.Base(aliasPath)+".tmp")

	// Leftover temp link from a crashed earlier run.
	_ = os.Remove(tmp)

	if err := os.Symlink(targetDir, tmp); err != nil {
		return fmt.Errorf("creating alias symlink: %w", err)
	}
	if err := os.Rename(tmp, aliasPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing alias %s: %w", aliasPath, err)
	}
	return nil
}

// ReadPointer returns the directory an alias currently points at.
func ReadPointer(aliasPath string) (string, error) {
	target, err := os.Readlink(aliasPath)
	if err != nil {
		return "", fmt.Errorf("reading alias %s: %w", aliasPath, err)
	}
	return target, nil
}
