// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"imgfetch-cli/internal/config"
	"imgfetch-cli/internal/issue"
	"imgfetch-cli/pkg/types"
)

// configCmd is the `imgfetch config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage imgfetch configuration",
	Long: `Manage imgfetch configuration.

Configuration is stored in:
  - Linux: ~/.config/imgfetch/config.cue
  - macOS: ~/Library/Application Support/imgfetch/config.cue
  - Windows: %APPDATA%\imgfetch\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(args[0], args[1])
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}

	keyStyle := ValueStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	// Derive the config file path from the standard config directory.
	cfgDir, dirErr := config.ConfigDir()
	cfgPath := ""
	if dirErr == nil {
		cfgPath = filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	}
	if cfgPath != "" && fileExistsCheck(cfgPath) {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("bucket"), valueStyle.Render(cfg.Bucket.String()))
	fmt.Printf("%s: %s\n", keyStyle.Render("default_channel"), valueStyle.Render(cfg.DefaultChannel.String()))
	if cfg.DefaultBoard != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("default_board"), valueStyle.Render(cfg.DefaultBoard.String()))
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("default_board"), SubtitleStyle.Render("(not set)"))
	}

	root, err := cfg.CacheRoot()
	if err == nil {
		fmt.Printf("%s: %s\n", keyStyle.Render("cache_dir"), valueStyle.Render(root))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("cache"))
	fmt.Printf("  keep: %s\n", valueStyle.Render(strconv.Itoa(cfg.Cache.Keep)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("fetch"))
	fmt.Printf("  fail_on_missing: %s\n", valueStyle.Render(strconv.FormatBool(cfg.Fetch.FailOnMissing)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("serve"))
	fmt.Printf("  addr: %s\n", valueStyle.Render(cfg.Serve.Addr.String()))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))

	return nil
}

func initConfigFile() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n",
		SuccessStyle.Render("✓"),
		filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	cacheDir, err := config.DefaultCacheDir()
	if err == nil {
		fmt.Printf("Default cache directory: %s\n", cacheDir)
	}
	return nil
}

func setConfigValue(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "bucket":
		cfg.Bucket = config.BucketName(value)
	case "default_channel":
		cfg.DefaultChannel = types.ChannelName(value)
	case "default_board":
		cfg.DefaultBoard = types.BoardName(value)
	case "cache_dir":
		cfg.CacheDir = config.CacheDirPath(value)
	case "cache.keep":
		keep, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid cache.keep: %w", err)
		}
		cfg.Cache.Keep = keep
	case "fetch.fail_on_missing":
		cfg.Fetch.FailOnMissing = value == "true" || value == "1"
	case "serve.addr":
		cfg.Serve.Addr = types.ListenAddr(value)
	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: bucket, default_channel, default_board, cache_dir, cache.keep, fetch.fail_on_missing, serve.addr, ui.verbose, ui.color_scheme", key)
	}

	// Reject the write before it lands in the file.
	if valid, errs := cfg.IsValid(); !valid {
		return errs[0]
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
