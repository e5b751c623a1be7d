// SPDX-License-Identifier: MPL-2.0

package gstorage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// prodClient is the Client implementation backed by a real Google Cloud
// Storage bucket.
type prodClient struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

// ProdOption configures a production client during construction.
type ProdOption func(*prodOptions)

type prodOptions struct {
	clientOpts []option.ClientOption
}

// WithAnonymousAccess disables credential lookup entirely. Image archive
// buckets are world-readable, so fetches work without any configured
// Google credentials.
func WithAnonymousAccess() ProdOption {
	return func(o *prodOptions) {
		o.clientOpts = append(o.clientOpts, option.WithoutAuthentication())
	}
}

// WithClientOptions passes raw Google API client options through to the
// underlying storage client (endpoints, credentials, test doubles).
func WithClientOptions(opts ...option.ClientOption) ProdOption {
	return func(o *prodOptions) {
		o.clientOpts = append(o.clientOpts, opts...)
	}
}

// NewProdClient creates a Client reading from the named bucket using the
// production Cloud Storage service. Credentials follow the standard
// application-default lookup unless WithAnonymousAccess is given.
func NewProdClient(ctx context.Context, bucket string, opts ...ProdOption) (Client, error) {
	if bucket == "" {
		return nil, errors.New("bucket name must not be empty")
	}

	var po prodOptions
	for _, opt := range opts {
		opt(&po)
	}

	c, err := storage.NewClient(ctx, po.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &prodClient{
		client: c,
		bucket: c.Bucket(bucket),
	}, nil
}

func (c *prodClient) Close() error {
	return c.client.Close()
}

func (c *prodClient) List(ctx context.Context, prefix string) ([]Object, error) {
	var out []Object
	it := c.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing %q: %w", prefix, err)
		}
		out = append(out, Object{Name: attrs.Name, Size: attrs.Size})
	}
	return out, nil
}

func (c *prodClient) Attrs(ctx context.Context, name string) (Object, error) {
	attrs, err := c.bucket.Object(name).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return Object{}, fmt.Errorf("%q: %w", name, ErrObjectNotExist)
	}
	if err != nil {
		return Object{}, fmt.Errorf("stat %q: %w", name, err)
	}
	return Object{Name: attrs.Name, Size: attrs.Size}, nil
}

func (c *prodClient) Download(ctx context.Context, name string, w io.Writer) (int64, error) {
	r, err := c.bucket.Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return 0, fmt.Errorf("%q: %w", name, ErrObjectNotExist)
	}
	if err != nil {
		return 0, fmt.Errorf("opening %q: %w", name, err)
	}
	defer func() { _ = r.Close() }() // read-only object reader

	n, err := io.Copy(w, r)
	if err != nil {
		return n, fmt.Errorf("downloading %q: %w", name, err)
	}
	return n, nil
}
