// SPDX-License-Identifier: MPL-2.0

package devserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"imgfetch-cli/internal/cache"
	"imgfetch-cli/pkg/types"
)

func testServer(t *testing.T) (*Server, cache.Layout) {
	t.Helper()

	layout := cache.Layout{Root: t.TempDir()}
	s, err := New(layout, types.ListenAddr("127.0.0.1:0"),
		WithLogger(log.NewWithOptions(io.Discard, log.Options{})))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Stop() })
	return s, layout
}

func seedBuild(t *testing.T, layout cache.Layout, board types.BoardName, version string) {
	t.Helper()

	dir := layout.ExtractDir(board, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "flatcar_test_image.bin"), []byte(version), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLatestBuild_PicksHighestVersion(t *testing.T) {
	t.Parallel()

	s, layout := testServer(t)
	board := types.BoardName("amd64-usr")
	seedBuild(t, layout, board, "R18-1650.0.0")
	seedBuild(t, layout, board, "R19-2000.0.0")
	seedBuild(t, layout, board, "R18-1660.0.0")

	got, err := s.LatestBuild(board)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "R19-2000.0.0" {
		t.Errorf("LatestBuild = %q, want R19-2000.0.0", got)
	}
}

func TestLatestBuild_EmptyCache(t *testing.T) {
	t.Parallel()

	s, _ := testServer(t)
	if _, err := s.LatestBuild(types.BoardName("amd64-usr")); err != ErrNoCachedBuild {
		t.Errorf("err = %v, want ErrNoCachedBuild", err)
	}
}

func TestHandleLatestBuild(t *testing.T) {
	t.Parallel()

	s, layout := testServer(t)
	seedBuild(t, layout, types.BoardName("amd64-usr"), "R18-1650.0.0")

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantBody   string
	}{
		{"known board", http.MethodGet, "/latestbuild?board=amd64-usr", http.StatusOK, "R18-1650.0.0"},
		{"unknown board", http.MethodGet, "/latestbuild?board=arm64-usr", http.StatusNotFound, ""},
		{"missing board param", http.MethodGet, "/latestbuild", http.StatusBadRequest, ""},
		{"invalid board name", http.MethodGet, "/latestbuild?board=..%2Fetc", http.StatusBadRequest, ""},
		{"wrong method", http.MethodPost, "/latestbuild?board=amd64-usr", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			s.handleLatestBuild(rec, httptest.NewRequest(tt.method, tt.target, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestServesCachedFiles(t *testing.T) {
	t.Parallel()

	s, layout := testServer(t)
	board := types.BoardName("amd64-usr")
	seedBuild(t, layout, board, "R18-1650.0.0")

	s.Start()
	resp, err := http.Get("http://" + s.Address() + "/amd64-usr/R18-1650.0.0/flatcar_test_image.bin")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "R18-1650.0.0" {
		t.Errorf("body = %q", body)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s, _ := testServer(t)
	s.Start()

	resp, err := http.Get("http://" + s.Address() + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
