// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"imgfetch-cli/internal/locate"
	"imgfetch-cli/pkg/types"
)

// CachedBuild is one version present in a board's cache: its archive
// and/or extraction directory.
type CachedBuild struct {
	Version     string
	ArchivePath string
	ArchiveSize int64
	ExtractDir  string
	HasArchive  bool
	HasDir      bool
	// ModTime is the newest mtime across the build's archive and
	// directory; trimming keeps the most recently touched builds.
	ModTime time.Time
}

// Builds inventories a board's cache directory, pairing archives with
// their extraction directories by version. Alias symlinks and foreign
// files are ignored. Results are sorted newest first.
func (l Layout) Builds(board types.BoardName) ([]CachedBuild, error) {
	boardDir := l.BoardDir(board)
	entries, err := os.ReadDir(boardDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache for board %s: %w", board, err)
	}

	byVersion := make(map[string]*CachedBuild)
	get := func(version string) *CachedBuild {
		b, ok := byVersion[version]
		if !ok {
			b = &CachedBuild{
				Version:     version,
				ArchivePath: l.ArchivePath(board, version),
				ExtractDir:  l.ExtractDir(board, version),
			}
			byVersion[version] = b
		}
		return b
	}

	for _, entry := range entries {
		// Symlinks (aliases) are skipped via Type; ReadDir does not follow
		// them.
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		name := entry.Name()
		info, err := entry.Info()
		if err != nil {
			continue
		}

		switch {
		case entry.IsDir() && locate.IsVersion(name):
			b := get(name)
			b.HasDir = true
			if info.ModTime().After(b.ModTime) {
				b.ModTime = info.ModTime()
			}
		case !entry.IsDir() && filepath.Ext(name) == ".zip" && locate.IsVersion(name[:len(name)-len(".zip")]):
			b := get(name[:len(name)-len(".zip")])
			b.HasArchive = true
			b.ArchiveSize = info.Size()
			if info.ModTime().After(b.ModTime) {
				b.ModTime = info.ModTime()
			}
		}
	}

	builds := make([]CachedBuild, 0, len(byVersion))
	for _, b := range byVersion {
		builds = append(builds, *b)
	}
	sort.Slice(builds, func(i, j int) bool { return builds[i].ModTime.After(builds[j].ModTime) })
	return builds, nil
}

// Trim removes all but the keep most-recently-touched builds for a
// board, deleting both archive and extraction directory of each removed
// build. Returns the removed versions.
func (l Layout) Trim(board types.BoardName, keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}
	builds, err := l.Builds(board)
	if err != nil {
		return nil, err
	}
	if len(builds) <= keep {
		return nil, nil
	}

	var removed []string
	for _, b := range builds[keep:] {
		if b.HasArchive {
			if err := os.Remove(b.ArchivePath); err != nil {
				return removed, fmt.Errorf("removing %s: %w", b.ArchivePath, err)
			}
		}
		if b.HasDir {
			if err := os.RemoveAll(b.ExtractDir); err != nil {
				return removed, fmt.Errorf("removing %s: %w", b.ExtractDir, err)
			}
		}
		removed = append(removed, b.Version)
	}
	return removed, nil
}

// Clear removes a board's entire cache directory: archives, extraction
// directories, and aliases.
func (l Layout) Clear(board types.BoardName) error {
	if err := os.RemoveAll(l.BoardDir(board)); err != nil {
		return fmt.Errorf("clearing cache for board %s: %w", board, err)
	}
	return nil
}
