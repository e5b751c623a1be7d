// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"imgfetch-cli/internal/gstorage"
)

// Download streams the remote object to destPath, truncating any
// previous or partial file there first. There is no resume support: a
// failure mid-transfer deliberately leaves the incomplete file in place
// so the next invocation's size check sees a mismatch and re-fetches.
func Download(ctx context.Context, client gstorage.Client, object, destPath string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, fmt.Errorf("creating cache directory: %w", err)
	}

	f, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("creating cache file: %w", err)
	}

	n, err := client.Download(ctx, object, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("downloading %s: %w", object, err)
	}
	return n, nil
}
