// SPDX-License-Identifier: MPL-2.0

// Package extract reads image archives and selectively unpacks their
// members. All member paths are flattened to their base filename on
// disk; an archive cannot write outside the destination directory.
package extract

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"

	"imgfetch-cli/internal/variant"
)

// ErrBadArchive is the sentinel error wrapped by BadArchiveError.
var ErrBadArchive = errors.New("unreadable image archive")

// BadArchiveError is returned when an archive cannot be opened or one of
// its members cannot be read. A truncated download is the usual cause.
type BadArchiveError struct {
	Path  string
	Cause error
}

// Error implements the error interface for BadArchiveError.
func (e *BadArchiveError) Error() string {
	return fmt.Sprintf("archive %q is not readable: %v", e.Path, e.Cause)
}

// Unwrap returns ErrBadArchive for errors.Is() compatibility.
func (e *BadArchiveError) Unwrap() error { return ErrBadArchive }

// List returns the image filenames present in the archive, sorted.
// Non-image members (version manifests, update payloads, checksums) are
// filtered out, and member paths are reduced to base filenames so the
// result is directly comparable against variant filenames.
func List(archivePath string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, &BadArchiveError{Path: archivePath, Cause: err}
	}
	defer r.Close()

	var images []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !variant.IsImageFile(f.Name) {
			continue
		}
		images = append(images, filepath.Base(f.Name))
	}
	slices.Sort(images)
	return slices.Compact(images), nil
}

// Extract unpacks the archive's image members into destDir, skipping any
// whose base filename appears in exclude. Existing files are overwritten
// in place, so extracting the same archive twice yields the same tree.
// Returns the base filenames written, sorted.
func Extract(archivePath, destDir string, exclude []string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, &BadArchiveError{Path: archivePath, Cause: err}
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	var written []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !variant.IsImageFile(f.Name) {
			continue
		}
		name := filepath.Base(f.Name)
		if skip[name] || strings.HasPrefix(name, ".") {
			continue
		}
		if err := extractMember(f, filepath.Join(destDir, name)); err != nil {
			return written, &BadArchiveError{Path: archivePath, Cause: err}
		}
		written = append(written, name)
	}
	slices.Sort(written)
	return written, nil
}

func extractMember(f *zip.File, destPath string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open member %q: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("write member %q: %w", f.Name, err)
	}
	return dst.Close()
}
