// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidBoardName is the sentinel error wrapped by InvalidBoardNameError.
var ErrInvalidBoardName = errors.New("invalid board name")

// boardNamePattern is the accepted shape for board identifiers, e.g.
// "amd64-usr" or "x86-mario". Board names become path components both in
// the remote store and under the local cache root, so the grammar is
// restricted to characters that are safe in both.
var boardNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

type (
	// BoardName identifies a target board (e.g., "amd64-usr").
	// The zero value ("") is invalid — every operation needs a board.
	BoardName string

	// InvalidBoardNameError is returned when a BoardName value is empty or
	// contains characters outside the board grammar.
	InvalidBoardNameError struct {
		Value BoardName
	}
)

// String returns the string representation of the BoardName.
func (b BoardName) String() string { return string(b) }

// IsValid returns whether the BoardName is valid.
// A valid name is non-empty and matches the board grammar.
func (b BoardName) IsValid() (bool, []error) {
	if !boardNamePattern.MatchString(string(b)) {
		return false, []error{&InvalidBoardNameError{Value: b}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBoardNameError.
func (e *InvalidBoardNameError) Error() string {
	if e.Value == "" {
		return "invalid board name: must be non-empty"
	}
	return fmt.Sprintf("invalid board name %q: must match %s", e.Value, boardNamePattern)
}

// Unwrap returns ErrInvalidBoardName for errors.Is() compatibility.
func (e *InvalidBoardNameError) Unwrap() error { return ErrInvalidBoardName }
