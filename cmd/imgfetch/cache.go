// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"imgfetch-cli/internal/cache"
	"imgfetch-cli/internal/config"
	"imgfetch-cli/internal/issue"
	"imgfetch-cli/pkg/types"
)

var (
	cacheBoard string
	cacheKeep  int

	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the local image cache",
		Long: `Inspect and maintain the local image cache.

The cache keeps one directory per board holding downloaded archives
and extracted builds. Old builds are removed by 'cache trim'; the
retention count comes from cache.keep in the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cacheShowCmd = &cobra.Command{
		Use:   "show",
		Short: "List cached builds for a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheShow()
		},
	}

	cacheTrimCmd = &cobra.Command{
		Use:   "trim",
		Short: "Remove old cached builds, keeping the most recent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheTrim(cmd.Flags().Changed("keep"))
		},
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove a board's entire cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear()
		},
	}
)

func init() {
	cacheCmd.PersistentFlags().StringVarP(&cacheBoard, "board", "b", "", "target board, e.g. amd64-usr")
	cacheTrimCmd.Flags().IntVar(&cacheKeep, "keep", 0, "builds to keep (default from config)")

	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheTrimCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// cacheTarget resolves the board and cache layout shared by all cache
// subcommands.
func cacheTarget() (cache.Layout, types.BoardName, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return cache.Layout{}, "", nil, &ExitError{Code: types.ExitUsage, Err: err}
	}

	board := types.BoardName(cacheBoard)
	if board == "" {
		board = cfg.DefaultBoard
	}
	if board == "" {
		renderIssue(issue.BoardRequiredId)
		return cache.Layout{}, "", nil, &ExitError{Code: types.ExitUsage, Err: errors.New("no board specified")}
	}
	if ok, errs := board.IsValid(); !ok {
		return cache.Layout{}, "", nil, &ExitError{Code: types.ExitUsage, Err: errs[0]}
	}

	root, err := cfg.CacheRoot()
	if err != nil {
		return cache.Layout{}, "", nil, err
	}
	return cache.Layout{Root: root}, board, cfg, nil
}

func runCacheShow() error {
	layout, board, _, err := cacheTarget()
	if err != nil {
		return err
	}

	builds, err := layout.Builds(board)
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Cached builds") + SubtitleStyle.Render(" — "+board.String()))
	if len(builds) == 0 {
		fmt.Println(SubtitleStyle.Render("  (cache is empty)"))
		return nil
	}

	for _, b := range builds {
		parts := ""
		if b.HasArchive {
			parts += fmt.Sprintf(" archive %s", humanSize(b.ArchiveSize))
		}
		if b.HasDir {
			parts += " extracted"
		}
		fmt.Printf("  %s%s\n", ValueStyle.Render(b.Version), SubtitleStyle.Render(parts))
	}
	return nil
}

func runCacheTrim(keepSet bool) error {
	layout, board, cfg, err := cacheTarget()
	if err != nil {
		return err
	}

	keep := cfg.Cache.Keep
	if keepSet {
		if cacheKeep < 1 {
			return &ExitError{Code: types.ExitUsage, Err: fmt.Errorf("--keep must be at least 1, got %d", cacheKeep)}
		}
		keep = cacheKeep
	}

	removed, err := layout.Trim(board, keep)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Printf("%s Nothing to trim (keeping up to %d builds)\n", SuccessStyle.Render("✓"), keep)
		return nil
	}
	for _, version := range removed {
		fmt.Printf("%s Removed %s\n", SuccessStyle.Render("✓"), ValueStyle.Render(version))
	}
	return nil
}

func runCacheClear() error {
	layout, board, _, err := cacheTarget()
	if err != nil {
		return err
	}

	if err := layout.Clear(board); err != nil {
		return err
	}
	fmt.Printf("%s Cleared cache for %s\n", SuccessStyle.Render("✓"), ValueStyle.Render(board.String()))
	return nil
}

// humanSize renders a byte count in the nearest binary unit.
func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
