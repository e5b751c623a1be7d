// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for imgfetch.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"imgfetch-cli/internal/config"
	"imgfetch-cli/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// Verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "imgfetch",
		Short: "Fetch, cache and extract OS image builds",
		Long: TitleStyle.Render("imgfetch") + SubtitleStyle.Render(" - Fetch, cache and extract OS image builds") + `

imgfetch locates build archives for a board in the remote image store,
keeps a local per-board cache of downloaded archives, extracts the
image variants you ask for, and maintains a "latest" symlink pointing
at the newest extracted build.

Archives already present locally are reused when their size still
matches the remote copy, so repeat fetches of the same build are
network-free.

` + SubtitleStyle.Render("Examples:") + `
  imgfetch fetch --board amd64-usr             Fetch the latest test image
  imgfetch fetch --board amd64-usr dev qemu    Fetch specific variants
  imgfetch fetch --version 1650 test           Fetch a specific build
  imgfetch cache show --board amd64-usr        Inspect the local cache
  imgfetch serve                               Serve the cache over HTTP`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/imgfetch/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(variantsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(newCompletionCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// newLogger builds the logger used for fetch/serve step narration,
// honoring the verbose flag.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// colorScheme returns the glamour style name for rendered issue cards.
func colorScheme() string {
	cfg, err := config.Load()
	if err != nil {
		return "auto"
	}
	return string(cfg.UI.ColorScheme)
}

// renderIssue prints the diagnostic card for id to stderr. Rendering
// failures fall back to the card's raw markdown.
func renderIssue(id issue.Id) {
	card := issue.ForId(id)
	if card == nil {
		return
	}
	rendered, err := card.Render(colorScheme())
	if err != nil {
		rendered = string(card.MarkdownMsg())
	}
	fmt.Fprint(os.Stderr, rendered)
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
