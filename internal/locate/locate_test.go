// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"context"
	"errors"
	"testing"

	"imgfetch-cli/internal/gstorage"
	"imgfetch-cli/pkg/types"
)

func TestValidatePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{"empty means latest", "", false},
		{"full version", "R18-1650.0.0", false},
		{"full version with suffix", "R22-2303.3.1-a1", false},
		{"fragment", "1650", false},
		{"dotted fragment", "1650.0.0", false},
		{"stray text", "banana", true},
		{"missing milestone dash", "R18.1650.0.0", true},
		{"embedded space", "R18-1650 .0.0", true},
		{"glob characters", "1650*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidatePattern(tt.pattern)
			if tt.wantErr && !errors.Is(err, ErrInvalidVersionFormat) {
				t.Errorf("ValidatePattern(%q) = %v, want ErrInvalidVersionFormat", tt.pattern, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidatePattern(%q) = %v, want nil", tt.pattern, err)
			}
		})
	}
}

func TestCompareVersions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"R18-1650.0.0", "R18-1650.0.0", 0},
		{"R18-1650.0.0", "R17-9999.0.0", 1},
		{"R18-1650.0.0", "R18-1650.0.1", -1},
		{"R18-1650.10.0", "R18-1650.9.0", 1},
		{"R18-1650.0.0-a1", "R18-1650.0.0", 1},
		{"R2-1.0.0", "R10-1.0.0", -1},
	}

	for _, tt := range tests {
		got := CompareVersions(tt.a, tt.b)
		if sign(got) != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func listingClient() *gstorage.MemClient {
	return gstorage.NewMemClient(map[string][]byte{
		"stable/amd64-usr/R18-1650.0.0/image.zip": []byte("aa"),
		"stable/amd64-usr/R18-1660.0.0/image.zip": []byte("bb"),
		"stable/amd64-usr/R19-2000.0.0/image.zip": []byte("cc"),
		"stable/amd64-usr/R19-2000.0.0/notes.txt": []byte("x"),
		"stable/arm64-usr/R19-2100.0.0/image.zip": []byte("dd"),
		"beta/amd64-usr/R20-2200.0.0/image.zip":   []byte("ee"),
	})
}

func TestResolve_EmptyPatternPicksLatest(t *testing.T) {
	t.Parallel()

	id, err := Resolve(context.Background(), listingClient(), types.ChannelName("stable"), types.BoardName("amd64-usr"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Version != "R19-2000.0.0" {
		t.Errorf("Version = %q, want R19-2000.0.0", id.Version)
	}
	if id.Object != "stable/amd64-usr/R19-2000.0.0/image.zip" {
		t.Errorf("Object = %q", id.Object)
	}
}

func TestResolve_FullVersionExactMatch(t *testing.T) {
	t.Parallel()

	id, err := Resolve(context.Background(), listingClient(), types.ChannelName("stable"), types.BoardName("amd64-usr"), "R18-1650.0.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Version != "R18-1650.0.0" {
		t.Errorf("Version = %q, want R18-1650.0.0", id.Version)
	}
}

func TestResolve_FragmentCollapsesToHighest(t *testing.T) {
	t.Parallel()

	// Fragment "16" must not prefix-match 1650 or 1660 builds; "1650"
	// matches only R18-1650.0.0; two-match fragment picks the higher.
	cases := []struct {
		pattern string
		want    string
		wantErr bool
	}{
		{"1650", "R18-1650.0.0", false},
		{"2000.0.0", "R19-2000.0.0", false},
		{"16", "", true},
	}

	for _, tc := range cases {
		id, err := Resolve(context.Background(), listingClient(), types.ChannelName("stable"), types.BoardName("amd64-usr"), tc.pattern)
		if tc.wantErr {
			if !errors.Is(err, ErrArchiveNotFound) {
				t.Errorf("pattern %q: err = %v, want ErrArchiveNotFound", tc.pattern, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("pattern %q: unexpected error: %v", tc.pattern, err)
		}
		if id.Version != tc.want {
			t.Errorf("pattern %q: Version = %q, want %q", tc.pattern, id.Version, tc.want)
		}
	}
}

func TestResolve_NotFoundCarriesChannelAndBoard(t *testing.T) {
	t.Parallel()

	_, err := Resolve(context.Background(), listingClient(), types.ChannelName("stable"), types.BoardName("x86-mario"), "")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nf.Channel != "stable" || nf.Board != "x86-mario" {
		t.Errorf("NotFoundError = %+v, want channel/board preserved", nf)
	}
}

func TestResolve_InvalidPatternBeforeAnyRemoteCall(t *testing.T) {
	t.Parallel()

	client := listingClient()
	_, err := Resolve(context.Background(), client, types.ChannelName("stable"), types.BoardName("amd64-usr"), "not-a-version")
	if !errors.Is(err, ErrInvalidVersionFormat) {
		t.Fatalf("err = %v, want ErrInvalidVersionFormat", err)
	}
	if calls := client.Calls(); len(calls) != 0 {
		t.Errorf("remote calls made for invalid pattern: %v", calls)
	}
}

func TestResolve_IgnoresForeignObjects(t *testing.T) {
	t.Parallel()

	// notes.txt beside the archive and archives on other boards/channels
	// must not produce candidate versions.
	client := gstorage.NewMemClient(map[string][]byte{
		"stable/amd64-usr/R19-2000.0.0/notes.txt": []byte("x"),
		"stable/amd64-usr/garbage/image.zip":      []byte("y"),
	})
	_, err := Resolve(context.Background(), client, types.ChannelName("stable"), types.BoardName("amd64-usr"), "")
	if !errors.Is(err, ErrArchiveNotFound) {
		t.Errorf("err = %v, want ErrArchiveNotFound", err)
	}
}
