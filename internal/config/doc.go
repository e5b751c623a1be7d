// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/imgfetch/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/imgfetch/config.cue on macOS, %APPDATA%\imgfetch\config.cue
// on Windows), with IMGFETCH_* environment variables layered on top. The package provides
// type-safe access to the remote store bucket, default channel and board, cache location
// and retention, fetch behavior, and the cache server address.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
