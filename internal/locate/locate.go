// SPDX-License-Identifier: MPL-2.0

// Package locate resolves a (channel, board, version pattern) selector to
// exactly one remote image archive.
//
// The version pattern is validated against a fixed grammar before any
// network access; remote listing happens only for well-formed selectors.
// A pattern matching several versions collapses to the highest one, so
// the empty pattern means "the newest build".
package locate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"imgfetch-cli/internal/gstorage"
	"imgfetch-cli/pkg/types"
)

// ArchiveFileName is the fixed name of the archive object inside each
// remote version directory.
const ArchiveFileName = "image.zip"

var (
	// ErrInvalidVersionFormat is the sentinel error wrapped by InvalidVersionFormatError.
	ErrInvalidVersionFormat = errors.New("invalid version format")
	// ErrArchiveNotFound is the sentinel error wrapped by NotFoundError.
	ErrArchiveNotFound = errors.New("archive not found")

	// fullVersionRe matches complete versions like "R18-1650.0.0" or
	// "R22-2303.3.1-a1".
	fullVersionRe = regexp.MustCompile(`^R\d+-\d+(\.\d+)*(-[A-Za-z0-9.+]+)?$`)
	// fragmentRe matches bare numeric fragments like "1650" or "1650.0.0"
	// that select builds by prefix.
	fragmentRe = regexp.MustCompile(`^\d+(\.\d+)*$`)

	versionCaptureRe = regexp.MustCompile(`^R(\d+)-(\d+(?:\.\d+)*)(?:-([A-Za-z0-9.+]+))?$`)
)

type (
	// ArchiveIdentity names one resolved remote archive. Immutable once
	// resolved.
	ArchiveIdentity struct {
		Channel types.ChannelName
		Board   types.BoardName
		// Version is the fully resolved version string, e.g. "R18-1650.0.0".
		Version string
		// Object is the archive's full object name within the bucket.
		Object string
	}

	// InvalidVersionFormatError is returned when a version pattern does not
	// match the recognized grammar. Raised before any remote call.
	InvalidVersionFormatError struct {
		Pattern string
	}

	// NotFoundError is returned when the remote listing yields no archive
	// for the selector. It carries the channel and board for operator
	// diagnosis.
	NotFoundError struct {
		Channel types.ChannelName
		Board   types.BoardName
		Pattern string
	}
)

// Error implements the error interface for InvalidVersionFormatError.
func (e *InvalidVersionFormatError) Error() string {
	return fmt.Sprintf("invalid version format %q: want a full version (R18-1650.0.0), a numeric fragment, or empty for latest", e.Pattern)
}

// Unwrap returns ErrInvalidVersionFormat for errors.Is() compatibility.
func (e *InvalidVersionFormatError) Unwrap() error { return ErrInvalidVersionFormat }

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	sel := e.Pattern
	if sel == "" {
		sel = "latest"
	}
	return fmt.Sprintf("no archive found for channel %q board %q version %q", e.Channel, e.Board, sel)
}

// Unwrap returns ErrArchiveNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrArchiveNotFound }

// ValidatePattern checks a user-supplied version selector against the
/// grammar: empty, a full version, or a numeric fragment.
func ValidatePattern(pattern string) error {
	if pattern == "" || fullVersionRe.MatchString(pattern) || fragmentRe.MatchString(pattern) {
		return nil
	}
	return &InvalidVersionFormatError{Pattern: pattern}
}

// IsVersion reports whether s is a complete version string.
func IsVersion(s string) bool {
	return fullVersionRe.MatchString(s)
}

// Resolve lists the remote store under the channel/board prefix and
// resolves the version pattern to exactly one archive. Read-only; its
// single side effect is the remote listing.
func Resolve(ctx context.Context, client gstorage.Client, channel types.ChannelName, board types.BoardName, pattern string) (ArchiveIdentity, error) {
	if err := ValidatePattern(pattern); err != nil {
		return ArchiveIdentity{}, err
	}

	prefix := fmt.Sprintf("%s/%s/", channel, board)
	objects, err := client.List(ctx, prefix)
	if err != nil {
		return ArchiveIdentity{}, fmt.Errorf("listing %s: %w", prefix, err)
	}

	seen := make(map[string]bool)
	var matches []string
	for _, obj := range objects {
		rest := strings.TrimPrefix(obj.Name, prefix)
		version, file, found := strings.Cut(rest, "/")
		if !found || file != ArchiveFileName {
			continue
		}
		if !IsVersion(version) || seen[version] {
			continue
		}
		seen[version] = true
		if matchesPattern(version, pattern) {
			matches = append(matches, version)
		}
	}

	if len(matches) == 0 {
		return ArchiveIdentity{}, &NotFoundError{Channel: channel, Board: board, Pattern: pattern}
	}

	// Several matches (always the case for the empty pattern) collapse to
	// the highest version.
	best := matches[0]
	for _, v := range matches[1:] {
		if CompareVersions(v, best) > 0 {
			best = v
		}
	}

	return ArchiveIdentity{
		Channel: channel,
		Board:   board,
		Version: best,
		Object:  prefix + best + "/" + ArchiveFileName,
	}, nil
}

// matchesPattern reports whether a complete version satisfies the
// selector. Full-version patterns require exact equality; numeric
// fragments match the build part (after "R<milestone>-") at a component
// boundary, so "1650" matches R18-1650.0.0 but not R18-16500.0.0.
func matchesPattern(version, pattern string) bool {
	if pattern == "" {
		return true
	}
	if fullVersionRe.MatchString(pattern) {
		return version == pattern
	}

	m := versionCaptureRe.FindStringSubmatch(version)
	if m == nil {
		return false
	}
	build := m[2]
	return build == pattern || strings.HasPrefix(build, pattern+".")
}

// CompareVersions orders two complete version strings: by milestone,
// then by the numeric build components, then by suffix. Strings that do
// not parse as versions sort below ones that do, then lexically.
func CompareVersions(a, b string) int {
	ma := versionCaptureRe.FindStringSubmatch(a)
	mb := versionCaptureRe.FindStringSubmatch(b)
	switch {
	case ma == nil && mb == nil:
		return strings.Compare(a, b)
	case ma == nil:
		return -1
	case mb == nil:
		return 1
	}

	amile, _ := strconv.Atoi(ma[1])
	bmile, _ := strconv.Atoi(mb[1])
	if amile != bmile {
		return cmpInt(amile, bmile)
	}

	if c := compareDotted(ma[2], mb[2]); c != 0 {
		return c
	}
	return strings.Compare(ma[3], mb[3])
}

func compareDotted(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var an, bn int
		if i < len(as) {
			an, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bn, _ = strconv.Atoi(bs[i])
		}
		if an != bn {
			return cmpInt(an, bn)
		}
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
