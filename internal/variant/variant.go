// SPDX-License-Identifier: MPL-2.0

// Package variant defines the closed set of image variants and the set
// reconciliation between requested and available image files.
//
// A variant is the human-facing short name for one image file inside an
// archive ("test", "base", ...). The name → filename mapping is a static,
// closed enumeration: unknown names are a hard input-validation error,
// never a lookup miss. Reconciliation is genuine set membership on
// filenames — variant names are mapped to filenames first, so a short
// name like "test" can never accidentally match an unrelated archive
// member by substring.
package variant

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrUnknownVariant is the sentinel error wrapped by UnknownVariantError.
var ErrUnknownVariant = errors.New("unknown image variant")

type (
	// Variant is the short name of one image inside an archive.
	Variant string

	// UnknownVariantError is returned when a variant name is not part of
	// the closed enumeration.
	UnknownVariantError struct {
		Value string
	}

	// Reconciliation is the result of set-differencing the requested
	// variants against the archive's available image files. All three
	// fields hold image filenames, deduplicated and sorted.
	Reconciliation struct {
		// Missing are requested image files absent from the archive.
		Missing []string
		// Exclude are available image files that were not requested and
		// must be skipped during extraction.
		Exclude []string
		// ToExtract are requested image files present in the archive.
		ToExtract []string
	}
)

const (
	// Base is the production image.
	Base Variant = "base"
	// Dev is the developer image.
	Dev Variant = "dev"
	// Test is the test image (the default when no variants are requested).
	Test Variant = "test"
	// Qemu is the developer image packaged for qemu.
	Qemu Variant = "qemu"
	// Recovery is the recovery image.
	Recovery Variant = "recovery"
)

// filenames is the closed name → archive-member mapping.
var filenames = map[Variant]string{
	Base:     "flatcar_base_image.bin",
	Dev:      "flatcar_developer_image.bin",
	Test:     "flatcar_test_image.bin",
	Qemu:     "flatcar_developer_qemu_image.bin",
	Recovery: "recovery_image.bin",
}

// Error implements the error interface for UnknownVariantError.
func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown image variant %q (known: %s)", e.Value, strings.Join(allNames(), ", "))
}

// Unwrap returns ErrUnknownVariant for errors.Is() compatibility.
func (e *UnknownVariantError) Unwrap() error { return ErrUnknownVariant }

// String returns the variant's short name.
func (v Variant) String() string { return string(v) }

// Filename returns the fixed archive filename for the variant.
// Panics on a Variant that did not come through Parse; construct variants
// from user input with Parse or ParseAll only.
func (v Variant) Filename() string {
	name, ok := filenames[v]
	if !ok {
		panic(fmt.Sprintf("variant %q has no filename mapping", string(v)))
	}
	return name
}

// Parse validates a user-supplied variant name against the closed
// enumeration.
func Parse(name string) (Variant, error) {
	v := Variant(name)
	if _, ok := filenames[v]; !ok {
		return "", &UnknownVariantError{Value: name}
	}
	return v, nil
}

// ParseAll validates a list of user-supplied names, deduplicating while
// preserving first-seen order. An empty input defaults to {Test}.
// The first unknown name fails the whole call.
func ParseAll(names []string) ([]Variant, error) {
	if len(names) == 0 {
		return []Variant{Test}, nil
	}
	seen := make(map[Variant]bool, len(names))
	out := make([]Variant, 0, len(names))
	for _, name := range names {
		v, err := Parse(name)
		if err != nil {
			return nil, err
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// allNames returns the short names of all known variants, sorted.
func allNames() []string {
	names := make([]string, 0, len(filenames))
	for v := range filenames {
		names = append(names, string(v))
	}
	slices.Sort(names)
	return names
}

// All returns every known variant sorted by name.
func All() []Variant {
	vs := maps.Keys(filenames)
	slices.Sort(vs)
	return vs
}

// Filenames returns the fixed archive filenames of all known variants,
// sorted.
func Filenames() []string {
	fs := maps.Values(filenames)
	slices.Sort(fs)
	return fs
}

// IsImageFile reports whether an archive member name follows the image
// naming convention. Membership is decided on the base filename's suffix,
// matching how the archive's table of contents is filtered before
// reconciliation.
func IsImageFile(member string) bool {
	base := member
	if i := strings.LastIndexByte(member, '/'); i >= 0 {
		base = member[i+1:]
	}
	return strings.HasSuffix(base, "_image.bin")
}

// Reconcile computes the three derived sets from the requested variants
// and the archive's available image filenames. Requested variant names
// are mapped to filenames before any comparison; both inputs are treated
// as sets (duplicates ignored, order irrelevant).
func Reconcile(requested []Variant, available []string) Reconciliation {
	want := make(map[string]bool, len(requested))
	for _, v := range requested {
		want[v.Filename()] = true
	}
	have := make(map[string]bool, len(available))
	for _, f := range available {
		have[f] = true
	}

	var r Reconciliation
	for f := range want {
		if have[f] {
			r.ToExtract = append(r.ToExtract, f)
		} else {
			r.Missing = append(r.Missing, f)
		}
	}
	for f := range have {
		if !want[f] {
			r.Exclude = append(r.Exclude, f)
		}
	}

	slices.Sort(r.Missing)
	slices.Sort(r.Exclude)
	slices.Sort(r.ToExtract)
	return r
}
