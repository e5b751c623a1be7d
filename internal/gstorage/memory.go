// SPDX-License-Identifier: MPL-2.0

package gstorage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// MemClient is an in-memory Client used in tests. It serves objects from
// a map and records every call so tests can assert which remote
// operations ran (in particular, that none did).
type MemClient struct {
	mu      sync.Mutex
	objects map[string][]byte
	calls   []string

	// Err, when set, is returned by every List/Attrs/Download call.
	// Simulates remote listing failures.
	Err error
}

// NewMemClient creates a MemClient serving the given objects
// (name → contents).
func NewMemClient(objects map[string][]byte) *MemClient {
	copied := make(map[string][]byte, len(objects))
	for k, v := range objects {
		copied[k] = v
	}
	return &MemClient{objects: copied}
}

// Put adds or replaces an object.
func (c *MemClient) Put(name string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[name] = data
}

// Calls returns the recorded call descriptions in order.
func (c *MemClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *MemClient) record(call string) {
	c.calls = append(c.calls, call)
}

func (c *MemClient) Close() error { return nil }

func (c *MemClient) List(ctx context.Context, prefix string) ([]Object, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("list " + prefix)
	if c.Err != nil {
		return nil, c.Err
	}

	var out []Object
	for name, data := range c.objects {
		if strings.HasPrefix(name, prefix) {
			out = append(out, Object{Name: name, Size: int64(len(data))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *MemClient) Attrs(ctx context.Context, name string) (Object, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("attrs " + name)
	if c.Err != nil {
		return Object{}, c.Err
	}

	data, ok := c.objects[name]
	if !ok {
		return Object{}, fmt.Errorf("%q: %w", name, ErrObjectNotExist)
	}
	return Object{Name: name, Size: int64(len(data))}, nil
}

func (c *MemClient) Download(ctx context.Context, name string, w io.Writer) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("download " + name)
	if c.Err != nil {
		return 0, c.Err
	}

	data, ok := c.objects[name]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrObjectNotExist)
	}
	n, err := w.Write(data)
	return int64(n), err
}
