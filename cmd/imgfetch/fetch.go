// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"imgfetch-cli/internal/cache"
	"imgfetch-cli/internal/config"
	"imgfetch-cli/internal/extract"
	"imgfetch-cli/internal/fetcher"
	"imgfetch-cli/internal/gstorage"
	"imgfetch-cli/internal/issue"
	"imgfetch-cli/internal/locate"
	"imgfetch-cli/internal/variant"
	"imgfetch-cli/pkg/types"
)

// newRemoteClient is a seam so tests can run fetches against an
// in-memory store.
var newRemoteClient = func(ctx context.Context, bucket config.BucketName) (gstorage.Client, error) {
	return gstorage.NewProdClient(ctx, string(bucket), gstorage.WithAnonymousAccess())
}

// fetchParams carries the resolved inputs of one `imgfetch fetch` run.
type fetchParams struct {
	channel  string
	board    string
	version  string
	symlink  string
	variants []string

	failOnMissing    bool
	failOnMissingSet bool
}

var (
	fetchFlags fetchParams

	fetchCmd = &cobra.Command{
		Use:   "fetch [variant...]",
		Short: "Fetch a build archive and extract image variants",
		Long: `Fetch a build archive and extract image variants.

Resolves the requested version against the remote store, reuses the
locally cached archive when its size still matches the remote copy,
extracts exactly the requested variants, and repoints the board's
symlink at the extracted build.

Variants are given as positional arguments; with none, the test image
is fetched. Known variants: ` + strings.Join(variantNames(), ", ") + `.`,
		Example: `  imgfetch fetch --board amd64-usr
  imgfetch fetch --board amd64-usr dev qemu
  imgfetch fetch --board amd64-usr --version 1650 test
  imgfetch fetch --board amd64-usr --version R18-1650.0.0 --symlink current`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := fetchFlags
			p.variants = args
			p.failOnMissingSet = cmd.Flags().Changed("fail-on-missing")
			return runFetch(cmd.Context(), p)
		},
	}
)

func init() {
	fetchCmd.Flags().StringVarP(&fetchFlags.channel, "channel", "c", "", "release channel (default from config)")
	fetchCmd.Flags().StringVarP(&fetchFlags.board, "board", "b", "", "target board, e.g. amd64-usr")
	fetchCmd.Flags().StringVar(&fetchFlags.version, "version", "", "version selector: full version, numeric fragment, or empty for latest")
	fetchCmd.Flags().StringVar(&fetchFlags.symlink, "symlink", "latest", "symlink name to repoint at the extracted build (empty disables)")
	fetchCmd.Flags().BoolVar(&fetchFlags.failOnMissing, "fail-on-missing", false, "treat requested variants absent from the archive as an error")
}

func variantNames() []string {
	all := variant.All()
	names := make([]string, len(all))
	for i, v := range all {
		names[i] = v.String()
	}
	return names
}

func runFetch(ctx context.Context, p fetchParams) error {
	cfg, err := config.Load()
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return &ExitError{Code: types.ExitUsage, Err: err}
	}

	board := types.BoardName(p.board)
	if board == "" {
		board = cfg.DefaultBoard
	}
	if board == "" {
		renderIssue(issue.BoardRequiredId)
		return &ExitError{Code: types.ExitUsage, Err: errors.New("no board specified")}
	}
	if ok, errs := board.IsValid(); !ok {
		return &ExitError{Code: types.ExitUsage, Err: errs[0]}
	}

	channel := types.ChannelName(p.channel)
	if channel == "" {
		channel = cfg.DefaultChannel
	}
	if ok, errs := channel.IsValid(); !ok {
		return &ExitError{Code: types.ExitUsage, Err: errs[0]}
	}

	alias := types.AliasName(p.symlink)
	if ok, errs := alias.IsValid(); !ok {
		return &ExitError{Code: types.ExitUsage, Err: errs[0]}
	}

	failOnMissing := cfg.Fetch.FailOnMissing
	if p.failOnMissingSet {
		failOnMissing = p.failOnMissing
	}

	root, err := cfg.CacheRoot()
	if err != nil {
		return err
	}

	client, err := newRemoteClient(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("connecting to bucket %s: %w", cfg.Bucket, err)
	}
	defer client.Close()

	svc := fetcher.NewService(client, cache.Layout{Root: root}, fetcher.WithLogger(newLogger()))
	report, err := svc.Run(ctx, fetcher.Request{
		Channel:       channel,
		Board:         board,
		Pattern:       p.version,
		Variants:      p.variants,
		Alias:         alias,
		FailOnMissing: failOnMissing,
	})
	if err != nil {
		return classifyFetchError(err)
	}

	printFetchReport(report)
	return nil
}

// classifyFetchError maps pipeline failures to diagnostic cards and
// exit codes. Input errors exit 2, a missing archive 3, extraction
// failures 4, missing variants (when fatal) 5.
func classifyFetchError(err error) error {
	switch {
	case errors.Is(err, variant.ErrUnknownVariant):
		renderIssue(issue.UnknownVariantId)
		return &ExitError{Code: types.ExitUsage, Err: err}
	case errors.Is(err, locate.ErrInvalidVersionFormat):
		renderIssue(issue.InvalidVersionFormatId)
		return &ExitError{Code: types.ExitUsage, Err: err}
	case errors.Is(err, locate.ErrArchiveNotFound):
		renderIssue(issue.ArchiveNotFoundId)
		return &ExitError{Code: types.ExitNotFound, Err: err}
	case errors.Is(err, extract.ErrBadArchive):
		renderIssue(issue.ExtractionFailedId)
		return &ExitError{Code: types.ExitExtraction, Err: err}
	case errors.Is(err, fetcher.ErrMissingVariants):
		return &ExitError{Code: types.ExitMissingVariants, Err: err}
	default:
		return err
	}
}

func printFetchReport(report fetcher.Report) {
	source := "downloaded"
	if report.CacheHit {
		source = "cached"
	}
	fmt.Printf("%s %s %s (%s)\n",
		SuccessStyle.Render("✓"),
		"Fetched",
		ValueStyle.Render(report.Identity.Version),
		source)
	for _, name := range report.Extracted {
		fmt.Printf("  %s %s\n", SuccessStyle.Render("✓"), name)
	}
	for _, name := range report.Missing {
		fmt.Printf("  %s %s %s\n", WarningStyle.Render("!"), name, SubtitleStyle.Render("(not in archive)"))
	}
	fmt.Printf("  %s %s\n", SubtitleStyle.Render("dir:"), report.TargetDir)
	if report.AliasPath != "" {
		fmt.Printf("  %s %s\n", SubtitleStyle.Render("link:"), report.AliasPath)
	}
}
