// SPDX-License-Identifier: MPL-2.0

// Package cache manages the local archive cache: the per-board directory
// layout, the size-equality freshness check, archive download, the
// "latest" alias symlink, and trimming of old entries.
//
// Layout under the cache root, mirroring the remote naming:
//
//	<root>/<board>/<version>.zip   cached archive
//	<root>/<board>/<version>/      extraction target
//	<root>/<board>/<alias>         symlink to an extraction target
package cache

import (
	"os"
	"path/filepath"

	"imgfetch-cli/pkg/types"
)

// Layout derives every cache path deterministically from the root.
type Layout struct {
	Root string
}

// BoardDir returns the per-board cache directory.
func (l Layout) BoardDir(board types.BoardName) string {
	return filepath.Join(l.Root, board.String())
}

// ArchivePath returns the cached archive path for a resolved version.
func (l Layout) ArchivePath(board types.BoardName, version string) string {
	return filepath.Join(l.Root, board.String(), version+".zip")
}

// ExtractDir returns the extraction target directory for a resolved
// version.
func (l Layout) ExtractDir(board types.BoardName, version string) string {
	return filepath.Join(l.Root, board.String(), version)
}

// AliasPath returns the path of a named alias symlink.
func (l Layout) AliasPath(board types.BoardName, alias types.AliasName) string {
	return filepath.Join(l.Root, board.String(), alias.String())
}

// Entry is the freshness decision input for one cached archive: where it
// lives, how big the remote store says it should be, and how big it
// actually is on disk (0 if absent). A failed remote size lookup is
// represented as ExpectedSize -1, which can never equal a real local
// size.
type Entry struct {
	Path         string
	ExpectedSize int64
	ActualSize   int64
}

// NewEntry builds an Entry for path, reading the actual size from the
// filesystem. A missing file has actual size 0.
func NewEntry(path string, expectedSize int64) Entry {
	return Entry{
		Path:         path,
		ExpectedSize: expectedSize,
		ActualSize:   FileSize(path),
	}
}

// Fresh reports whether the cached archive can be reused. Freshness is
// pure byte-size equality with both sizes non-negative — no checksum is
// computed, so a fresh entry means "probably the same archive we fetched
// before", not "verified intact".
func (e Entry) Fresh() bool {
	return e.ExpectedSize >= 0 && e.ActualSize >= 0 && e.ExpectedSize == e.ActualSize
}

// FileSize returns the size of a regular file, or 0 if it does not
// exist (or is not statable).
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return 0
	}
	return info.Size()
}
