// SPDX-License-Identifier: MPL-2.0

package fetcher

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"imgfetch-cli/internal/cache"
	"imgfetch-cli/internal/gstorage"
	"imgfetch-cli/internal/locate"
	"imgfetch-cli/internal/variant"
	"imgfetch-cli/pkg/types"
)

// zipBytes builds an in-memory zip with the given member name → contents.
func zipBytes(t *testing.T, members map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range members {
		mw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := mw.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newService(t *testing.T, objects map[string][]byte) (*Service, *gstorage.MemClient, cache.Layout) {
	t.Helper()

	client := gstorage.NewMemClient(objects)
	layout := cache.Layout{Root: t.TempDir()}
	svc := NewService(client, layout, WithLogger(quietLogger()))
	return svc, client, layout
}

func TestRun_FetchExtractAndAlias(t *testing.T) {
	t.Parallel()

	archive := zipBytes(t, map[string]string{
		"flatcar_test_image.bin":      "ttt",
		"flatcar_developer_image.bin": "ddd",
		"version.txt":                 "R18-1650.0.0",
	})
	svc, _, layout := newService(t, map[string][]byte{
		"stable/amd64-usr/R18-1650.0.0/image.zip": archive,
	})

	report, err := svc.Run(context.Background(), Request{
		Channel: types.ChannelName("stable"),
		Board:   types.BoardName("amd64-usr"),
		Alias:   types.AliasName("latest"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Identity.Version != "R18-1650.0.0" {
		t.Errorf("resolved version = %q", report.Identity.Version)
	}
	if report.CacheHit {
		t.Error("first fetch must not be a cache hit")
	}
	// Default request extracts only the test image.
	if want := []string{"flatcar_test_image.bin"}; !reflect.DeepEqual(report.Extracted, want) {
		t.Errorf("Extracted = %v, want %v", report.Extracted, want)
	}
	if len(report.Missing) != 0 {
		t.Errorf("Missing = %v, want none", report.Missing)
	}
	if _, err := os.Stat(filepath.Join(report.TargetDir, "flatcar_test_image.bin")); err != nil {
		t.Errorf("extracted image absent: %v", err)
	}
	if _, err := os.Stat(filepath.Join(report.TargetDir, "flatcar_developer_image.bin")); !os.IsNotExist(err) {
		t.Errorf("unrequested image must not be extracted, stat err = %v", err)
	}

	target, err := cache.ReadPointer(layout.AliasPath(types.BoardName("amd64-usr"), types.AliasName("latest")))
	if err != nil {
		t.Fatalf("alias not created: %v", err)
	}
	if target != report.TargetDir {
		t.Errorf("alias target = %q, want %q", target, report.TargetDir)
	}
}

func TestRun_FreshCacheSkipsDownload(t *testing.T) {
	t.Parallel()

	archive := zipBytes(t, map[string]string{
		"flatcar_test_image.bin": "ttt",
	})
	svc, client, _ := newService(t, map[string][]byte{
		"stable/amd64-usr/R18-1650.0.0/image.zip": archive,
	})
	req := Request{
		Channel: types.ChannelName("stable"),
		Board:   types.BoardName("amd64-usr"),
		Pattern: "R18-1650.0.0",
	}

	if _, err := svc.Run(context.Background(), req); err != nil {
		t.Fatalf("first run: %v", err)
	}
	report, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !report.CacheHit {
		t.Error("second run should reuse the cached archive")
	}
	var downloads int
	for _, call := range client.Calls() {
		if call == "download stable/amd64-usr/R18-1650.0.0/image.zip" {
			downloads++
		}
	}
	if downloads != 1 {
		t.Errorf("download ran %d times, want 1", downloads)
	}
}

func TestRun_StaleCacheRedownloads(t *testing.T) {
	t.Parallel()

	archive := zipBytes(t, map[string]string{
		"flatcar_test_image.bin": "ttt",
	})
	svc, _, layout := newService(t, map[string][]byte{
		"stable/amd64-usr/R18-1650.0.0/image.zip": archive,
	})

	// Seed a truncated cached archive, as a killed download would leave.
	board := types.BoardName("amd64-usr")
	stale := layout.ArchivePath(board, "R18-1650.0.0")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, archive[:len(archive)/2], 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := svc.Run(context.Background(), Request{
		Channel: types.ChannelName("stable"),
		Board:   board,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.CacheHit {
		t.Error("truncated archive must not count as a cache hit")
	}
	if got := cache.FileSize(stale); got != int64(len(archive)) {
		t.Errorf("cached size after refresh = %d, want %d", got, len(archive))
	}
}

func TestRun_MissingVariantReported(t *testing.T) {
	t.Parallel()

	archive := zipBytes(t, map[string]string{
		"flatcar_test_image.bin": "ttt",
	})
	objects := map[string][]byte{
		"stable/amd64-usr/R18-1650.0.0/image.zip": archive,
	}
	req := Request{
		Channel:  types.ChannelName("stable"),
		Board:    types.BoardName("amd64-usr"),
		Variants: []string{"test", "recovery"},
	}

	svc, _, _ := newService(t, objects)
	report, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("missing variant should not fail by default: %v", err)
	}
	if want := []string{"recovery_image.bin"}; !reflect.DeepEqual(report.Missing, want) {
		t.Errorf("Missing = %v, want %v", report.Missing, want)
	}
	if want := []string{"flatcar_test_image.bin"}; !reflect.DeepEqual(report.Extracted, want) {
		t.Errorf("present images must still be extracted, got %v", report.Extracted)
	}

	req.FailOnMissing = true
	svc, _, _ = newService(t, objects)
	_, err = svc.Run(context.Background(), req)
	if !errors.Is(err, ErrMissingVariants) {
		t.Fatalf("err = %v, want ErrMissingVariants", err)
	}
	var mv *MissingVariantsError
	if !errors.As(err, &mv) {
		t.Fatal("error should carry the report")
	}
	if len(mv.Report.Extracted) != 1 {
		t.Errorf("partial report lost: %+v", mv.Report)
	}
}

func TestRun_UnknownVariantFailsBeforeRemote(t *testing.T) {
	t.Parallel()

	svc, client, _ := newService(t, map[string][]byte{
		"stable/amd64-usr/R18-1650.0.0/image.zip": zipBytes(t, map[string]string{
			"flatcar_test_image.bin": "ttt",
		}),
	})

	_, err := svc.Run(context.Background(), Request{
		Channel:  types.ChannelName("stable"),
		Board:    types.BoardName("amd64-usr"),
		Variants: []string{"testt"},
	})
	if !errors.Is(err, variant.ErrUnknownVariant) {
		t.Fatalf("err = %v, want ErrUnknownVariant", err)
	}
	if calls := client.Calls(); len(calls) != 0 {
		t.Errorf("remote calls ran before validation: %v", calls)
	}
}

func TestRun_InvalidPatternFailsBeforeRemote(t *testing.T) {
	t.Parallel()

	svc, client, _ := newService(t, nil)

	_, err := svc.Run(context.Background(), Request{
		Channel: types.ChannelName("stable"),
		Board:   types.BoardName("amd64-usr"),
		Pattern: "not a version",
	})
	if !errors.Is(err, locate.ErrInvalidVersionFormat) {
		t.Fatalf("err = %v, want ErrInvalidVersionFormat", err)
	}
	if calls := client.Calls(); len(calls) != 0 {
		t.Errorf("remote calls ran before validation: %v", calls)
	}
}

func TestRun_ArchiveNotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newService(t, nil)

	_, err := svc.Run(context.Background(), Request{
		Channel: types.ChannelName("stable"),
		Board:   types.BoardName("amd64-usr"),
		Pattern: "R99-9999.0.0",
	})
	if !errors.Is(err, locate.ErrArchiveNotFound) {
		t.Fatalf("err = %v, want ErrArchiveNotFound", err)
	}
}

func TestRun_NoAliasWhenZero(t *testing.T) {
	t.Parallel()

	svc, _, layout := newService(t, map[string][]byte{
		"stable/amd64-usr/R18-1650.0.0/image.zip": zipBytes(t, map[string]string{
			"flatcar_test_image.bin": "ttt",
		}),
	})

	report, err := svc.Run(context.Background(), Request{
		Channel: types.ChannelName("stable"),
		Board:   types.BoardName("amd64-usr"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.AliasPath != "" {
		t.Errorf("AliasPath = %q, want empty", report.AliasPath)
	}
	entries, err := os.ReadDir(layout.BoardDir(types.BoardName("amd64-usr")))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Type()&os.ModeSymlink != 0 {
			t.Errorf("unexpected symlink %q", e.Name())
		}
	}
}
