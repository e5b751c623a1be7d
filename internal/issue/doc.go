// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error context and diagnostic cards.
//
// ActionableError carries what operation failed, which resource was
// involved, and suggestions for fixing it; the ErrorContext builder
// constructs them fluently. Issue cards are glamour-rendered markdown
// documents for the headline failures (archive not found, invalid version
// pattern, unknown variant), each carrying pointers to where a human can
// check build status.
package issue
