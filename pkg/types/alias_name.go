// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAliasName is the sentinel error wrapped by InvalidAliasNameError.
var ErrInvalidAliasName = errors.New("invalid alias name")

type (
	// AliasName is the name of the symbolic link repointed at the most
	// recently extracted version directory (default "latest").
	// The zero value ("") is valid and means "do not update any alias".
	AliasName string

	// InvalidAliasNameError is returned when an AliasName value contains a
	// path separator or is whitespace-only. Aliases live directly inside the
	// per-board cache directory and must stay a single path component.
	InvalidAliasNameError struct {
		Value AliasName
	}
)

// String returns the string representation of the AliasName.
func (a AliasName) String() string { return string(a) }

// IsZero returns true when no alias update was requested.
func (a AliasName) IsZero() bool { return a == "" }

// IsValid returns whether the AliasName is valid.
// The zero value ("") is valid. Non-zero values must not be whitespace-only
// and must not contain path separators.
func (a AliasName) IsValid() (bool, []error) {
	if a == "" {
		return true, nil
	}
	s := string(a)
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return false, []error{&InvalidAliasNameError{Value: a}}
	}
	return true, nil
}

// Error implements the error interface for InvalidAliasNameError.
func (e *InvalidAliasNameError) Error() string {
	return fmt.Sprintf("invalid alias name %q: must be a single non-empty path component", e.Value)
}

// Unwrap returns ErrInvalidAliasName for errors.Is() compatibility.
func (e *InvalidAliasNameError) Unwrap() error { return ErrInvalidAliasName }
