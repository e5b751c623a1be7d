// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"imgfetch-cli/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidBucketName is the sentinel error wrapped by InvalidBucketNameError.
	ErrInvalidBucketName = errors.New("invalid bucket name")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidCacheDirPath is returned when a CacheDirPath value is whitespace-only.
	ErrInvalidCacheDirPath = errors.New("invalid cache dir path")
	// ErrInvalidCacheConfig is the sentinel error wrapped by InvalidCacheConfigError.
	ErrInvalidCacheConfig = errors.New("invalid cache config")
	// ErrInvalidServeConfig is the sentinel error wrapped by InvalidServeConfigError.
	ErrInvalidServeConfig = errors.New("invalid serve config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

// bucketNamePattern is the accepted shape for remote store bucket names,
// per the GCS bucket naming rules that matter here.
var bucketNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

type (
	// BucketName identifies the remote store bucket that holds image
	// archives. A valid name is non-empty and bucket-safe.
	BucketName string

	// InvalidBucketNameError is returned when a BucketName value is empty
	// or not bucket-safe. It wraps ErrInvalidBucketName for errors.Is().
	InvalidBucketNameError struct {
		Value BucketName
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// CacheDirPath represents a filesystem path to the cache root.
	// The zero value ("") is valid and means "use default cache directory".
	// Non-zero values must not be whitespace-only.
	CacheDirPath string

	// InvalidCacheDirPathError is returned when a CacheDirPath value is
	// non-empty but whitespace-only.
	InvalidCacheDirPathError struct {
		Value CacheDirPath
	}

	// InvalidCacheConfigError is returned when a CacheConfig has invalid fields.
	// It wraps ErrInvalidCacheConfig for errors.Is() compatibility.
	InvalidCacheConfigError struct {
		FieldErrors []error
	}

	// InvalidServeConfigError is returned when a ServeConfig has invalid fields.
	// It wraps ErrInvalidServeConfig for errors.Is() compatibility.
	InvalidServeConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Bucket is the remote store bucket holding image archives.
		Bucket BucketName `json:"bucket" mapstructure:"bucket"`
		// DefaultChannel is the release channel used when --channel is not given.
		DefaultChannel types.ChannelName `json:"default_channel" mapstructure:"default_channel"`
		// DefaultBoard is the board used when --board is not given.
		// Empty means the board must come from the flag or environment.
		DefaultBoard types.BoardName `json:"default_board" mapstructure:"default_board"`
		// CacheDir overrides the cache root location.
		CacheDir CacheDirPath `json:"cache_dir" mapstructure:"cache_dir"`
		// Cache configures local cache retention.
		Cache CacheConfig `json:"cache" mapstructure:"cache"`
		// Fetch configures fetch behavior.
		Fetch FetchConfig `json:"fetch" mapstructure:"fetch"`
		// Serve configures the cache HTTP server.
		Serve ServeConfig `json:"serve" mapstructure:"serve"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// CacheConfig configures local cache retention.
	CacheConfig struct {
		// Keep is how many cached builds per board survive a trim.
		Keep int `json:"keep" mapstructure:"keep"`
	}

	// FetchConfig configures fetch behavior.
	FetchConfig struct {
		// FailOnMissing turns absent requested variants into an error
		// instead of a warning.
		FailOnMissing bool `json:"fail_on_missing" mapstructure:"fail_on_missing"`
	}

	// ServeConfig configures the cache HTTP server.
	ServeConfig struct {
		// Addr is the listen address for `imgfetch serve`.
		Addr types.ListenAddr `json:"addr" mapstructure:"addr"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the BucketName.
func (b BucketName) String() string { return string(b) }

// IsValid returns whether the BucketName is valid.
// A valid name is non-empty and bucket-safe.
func (b BucketName) IsValid() (bool, []error) {
	if !bucketNamePattern.MatchString(string(b)) {
		return false, []error{&InvalidBucketNameError{Value: b}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBucketNameError.
func (e *InvalidBucketNameError) Error() string {
	if e.Value == "" {
		return "invalid bucket name: must be non-empty"
	}
	return fmt.Sprintf("invalid bucket name %q: must match %s", e.Value, bucketNamePattern)
}

// Unwrap returns ErrInvalidBucketName for errors.Is() compatibility.
func (e *InvalidBucketNameError) Unwrap() error { return ErrInvalidBucketName }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the CacheDirPath.
func (p CacheDirPath) String() string { return string(p) }

// IsValid returns whether the CacheDirPath is valid.
// The zero value ("") is valid (means "use default cache directory").
// Non-zero values must not be whitespace-only.
func (p CacheDirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidCacheDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCacheDirPathError.
func (e *InvalidCacheDirPathError) Error() string {
	return fmt.Sprintf("invalid cache dir path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidCacheDirPath for errors.Is() compatibility.
func (e *InvalidCacheDirPathError) Unwrap() error { return ErrInvalidCacheDirPath }

// IsValid returns whether the CacheConfig has valid fields.
// Keep must be at least 1: a trim that keeps nothing would delete the
// build that was just fetched.
func (c CacheConfig) IsValid() (bool, []error) {
	if c.Keep < 1 {
		return false, []error{&InvalidCacheConfigError{
			FieldErrors: []error{fmt.Errorf("cache.keep must be at least 1, got %d", c.Keep)},
		}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCacheConfigError.
func (e *InvalidCacheConfigError) Error() string {
	return fmt.Sprintf("invalid cache config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidCacheConfig for errors.Is() compatibility.
func (e *InvalidCacheConfigError) Unwrap() error { return ErrInvalidCacheConfig }

// IsValid returns whether the ServeConfig has valid fields.
// It delegates to Addr.IsValid().
func (c ServeConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Addr.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidServeConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidServeConfigError.
func (e *InvalidServeConfigError) Error() string {
	return fmt.Sprintf("invalid serve config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidServeConfig for errors.Is() compatibility.
func (e *InvalidServeConfigError) Unwrap() error { return ErrInvalidServeConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to Bucket.IsValid(), CacheDir.IsValid(), Cache.IsValid(),
// Serve.IsValid(), and UI.IsValid(). DefaultChannel and DefaultBoard are
// validated only when set — the board may come from the flag or
// environment instead. Fetch has only bool fields and needs no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Bucket.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.DefaultChannel != "" {
		if valid, fieldErrs := c.DefaultChannel.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if c.DefaultBoard != "" {
		if valid, fieldErrs := c.DefaultBoard.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.CacheDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Cache.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Serve.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Bucket:         "flatcar-jenkins",
		DefaultChannel: "stable",
		DefaultBoard:   "", // Must come from flag, env or config file
		CacheDir:       "", // Will use default cache dir if empty
		Cache: CacheConfig{
			Keep: 12,
		},
		Fetch: FetchConfig{
			FailOnMissing: false,
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8080",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
