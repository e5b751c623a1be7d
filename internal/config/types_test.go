// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestBucketName_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value BucketName
		want  bool
	}{
		{"flatcar-jenkins", true},
		{"my.builds_01", true},
		{"", false},
		{"-leading-dash", false},
		{"Uppercase", false},
		{"has space", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.value, valid, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidBucketName) {
				t.Errorf("errs[0] = %v, want ErrInvalidBucketName", errs[0])
			}
		})
	}
}

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if valid, _ := cs.IsValid(); !valid {
			t.Errorf("%q should be valid", cs)
		}
	}
	valid, errs := ColorScheme("sepia").IsValid()
	if valid {
		t.Error("unknown scheme should be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("errs[0] = %v, want ErrInvalidColorScheme", errs[0])
	}
}

func TestCacheDirPath_IsValid(t *testing.T) {
	t.Parallel()

	if valid, _ := CacheDirPath("").IsValid(); !valid {
		t.Error("zero value should be valid (default cache dir)")
	}
	if valid, _ := CacheDirPath("/var/cache/imgfetch").IsValid(); !valid {
		t.Error("real path should be valid")
	}
	if valid, _ := CacheDirPath("   ").IsValid(); valid {
		t.Error("whitespace-only path should be invalid")
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Fatalf("default config must be valid: %v", errs)
	}

	bad := DefaultConfig()
	bad.Bucket = ""
	bad.Cache.Keep = 0
	valid, errs := bad.IsValid()
	if valid {
		t.Fatal("config with empty bucket and zero keep should be invalid")
	}
	var ce *InvalidConfigError
	if !errors.As(errs[0], &ce) {
		t.Fatalf("errs[0] = %T, want *InvalidConfigError", errs[0])
	}
	if len(ce.FieldErrors) != 2 {
		t.Errorf("FieldErrors = %v, want both failures collected", ce.FieldErrors)
	}
}

func TestConfig_IsValid_SkipsUnsetBoard(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.DefaultBoard = ""
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("unset board must not fail validation: %v", errs)
	}

	cfg.DefaultBoard = "NOT/OK"
	if valid, _ := cfg.IsValid(); valid {
		t.Error("set but malformed board must fail validation")
	}
}
