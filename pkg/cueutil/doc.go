// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for working with CUE files:
// size limits for untrusted input and error formatting that turns CUE's
// error lists into single, path-prefixed messages suitable for the CLI.
package cueutil
