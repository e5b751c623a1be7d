// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Well-known exit codes for the imgfetch CLI. The distinct values let
// wrapper scripts tell an input mistake apart from a remote-side failure
// without parsing stderr.
const (
	// ExitSuccess is the successful exit code.
	ExitSuccess ExitCode = 0
	// ExitFailure is the generic failure exit code.
	ExitFailure ExitCode = 1
	// ExitUsage signals an input error: missing board, malformed version
	// pattern, or an unknown variant name.
	ExitUsage ExitCode = 2
	// ExitNotFound signals that no archive matched the requested
	// channel/board/version selector.
	ExitNotFound ExitCode = 3
	// ExitExtraction signals a failure while extracting the archive.
	ExitExtraction ExitCode = 4
	// ExitMissingVariants signals that some requested variants were absent
	// from the archive and fail-on-missing was enabled.
	ExitMissingVariants ExitCode = 5
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
