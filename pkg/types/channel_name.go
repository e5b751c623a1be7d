// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidChannelName is the sentinel error wrapped by InvalidChannelNameError.
var ErrInvalidChannelName = errors.New("invalid channel name")

// channelNamePattern matches release track names such as "stable", "beta",
// "alpha", or "dev-channel". Like boards, channels become path components
// in the remote object layout.
var channelNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

type (
	// ChannelName identifies a release track used to scope remote listings.
	// The zero value ("") is invalid — listings are always channel-scoped.
	ChannelName string

	// InvalidChannelNameError is returned when a ChannelName value is empty
	// or contains characters outside the channel grammar.
	InvalidChannelNameError struct {
		Value ChannelName
	}
)

// String returns the string representation of the ChannelName.
func (c ChannelName) String() string { return string(c) }

// IsValid returns whether the ChannelName is valid.
// A valid name is non-empty and matches the channel grammar.
func (c ChannelName) IsValid() (bool, []error) {
	if !channelNamePattern.MatchString(string(c)) {
		return false, []error{&InvalidChannelNameError{Value: c}}
	}
	return true, nil
}

// Error implements the error interface for InvalidChannelNameError.
func (e *InvalidChannelNameError) Error() string {
	if e.Value == "" {
		return "invalid channel name: must be non-empty"
	}
	return fmt.Sprintf("invalid channel name %q: must match %s", e.Value, channelNamePattern)
}

// Unwrap returns ErrInvalidChannelName for errors.Is() compatibility.
func (e *InvalidChannelNameError) Unwrap() error { return ErrInvalidChannelName }
