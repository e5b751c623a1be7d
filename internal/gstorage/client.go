// SPDX-License-Identifier: MPL-2.0

// Package gstorage abstracts the cloud object store holding image
// archives behind a small interface: prefix listing with size
// annotations, single-object metadata, and streaming download.
//
// The production implementation uses the Google Cloud Storage client;
// non-production implementations are used primarily for testing.
package gstorage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotExist is returned by Attrs and Download when the named
// object is not present in the bucket.
var ErrObjectNotExist = errors.New("object does not exist")

type (
	// Object is one remote archive entry: its full name within the bucket
	// and its size in bytes as reported by the store.
	Object struct {
		Name string
		Size int64
	}

	// Client is the read-only surface the fetch pipeline needs from the
	// object store.
	Client interface {
		io.Closer

		// List enumerates all objects under the given name prefix.
		List(ctx context.Context, prefix string) ([]Object, error)

		// Attrs returns the metadata of a single object.
		// Returns ErrObjectNotExist if the object is absent.
		Attrs(ctx context.Context, name string) (Object, error)

		// Download streams the object's bytes into w and returns the number
		// of bytes written. Returns ErrObjectNotExist if the object is absent.
		Download(ctx context.Context, name string, w io.Writer) (int64, error)
	}
)
