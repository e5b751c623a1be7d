// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrInvalidListenAddr is the sentinel error wrapped by InvalidListenAddrError.
var ErrInvalidListenAddr = errors.New("invalid listen address")

type (
	// ListenAddr is a host:port address the image server binds to
	// (e.g., ":8080" or "127.0.0.1:8080").
	// The zero value ("") is valid and means "use the configured default".
	ListenAddr string

	// InvalidListenAddrError is returned when a ListenAddr value is
	// non-empty but cannot be split into host and port.
	InvalidListenAddrError struct {
		Value ListenAddr
		Cause error
	}
)

// String returns the string representation of the ListenAddr.
func (a ListenAddr) String() string { return string(a) }

// IsValid returns whether the ListenAddr is valid.
// The zero value ("") is valid. Non-zero values must parse as host:port.
func (a ListenAddr) IsValid() (bool, []error) {
	if a == "" {
		return true, nil
	}
	if strings.TrimSpace(string(a)) == "" {
		return false, []error{&InvalidListenAddrError{Value: a}}
	}
	if _, _, err := net.SplitHostPort(string(a)); err != nil {
		return false, []error{&InvalidListenAddrError{Value: a, Cause: err}}
	}
	return true, nil
}

// Error implements the error interface for InvalidListenAddrError.
func (e *InvalidListenAddrError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid listen address %q: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid listen address %q: must be host:port", e.Value)
}

// Unwrap returns ErrInvalidListenAddr for errors.Is() compatibility.
func (e *InvalidListenAddrError) Unwrap() error { return ErrInvalidListenAddr }
