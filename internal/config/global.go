// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"sync"
)

var (
	// mu guards the cached config and the overrides below.
	mu sync.Mutex

	// cached holds the last successfully loaded config. Cobra runs
	// OnInitialize before every command; loading once per process is
	// enough.
	cached *Config

	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string

	// configFilePathOverride forces loading from a specific file,
	// set from the --config flag.
	configFilePathOverride string
)

// Load returns the process-wide configuration, loading it on first use.
// Subsequent calls return the cached value.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if cached != nil {
		return cached, nil
	}

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: configFilePathOverride,
	})
	if err != nil {
		return nil, err
	}
	cached = cfg
	return cfg, nil
}

// Reset clears the cached config and test overrides. Call from test
// cleanup to restore defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cached = nil
	configDirOverride = ""
	configFilePathOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	mu.Lock()
	defer mu.Unlock()
	cached = nil
	configDirOverride = dir
}

// SetConfigFilePathOverride forces configuration loading from the given
// file, bypassing the config directory lookup. Set from the --config flag.
func SetConfigFilePathOverride(path string) {
	mu.Lock()
	defer mu.Unlock()
	cached = nil
	configFilePathOverride = path
}
