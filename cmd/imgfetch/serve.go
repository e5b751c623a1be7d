// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgfetch-cli/internal/cache"
	"imgfetch-cli/internal/config"
	"imgfetch-cli/internal/devserver"
	"imgfetch-cli/internal/issue"
	"imgfetch-cli/pkg/types"
)

var (
	serveAddr string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the image cache over HTTP",
		Long: `Serve the image cache over HTTP.

Exposes the cache root as static files so other machines can pull
cached archives and extracted images, plus GET /latestbuild?board=<b>
returning the newest cached version for a board.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return &ExitError{Code: types.ExitUsage, Err: err}
	}

	addr := cfg.Serve.Addr
	if serveAddr != "" {
		addr = types.ListenAddr(serveAddr)
	}
	if ok, errs := addr.IsValid(); !ok {
		return &ExitError{Code: types.ExitUsage, Err: errs[0]}
	}

	root, err := cfg.CacheRoot()
	if err != nil {
		return err
	}

	srv, err := devserver.New(cache.Layout{Root: root}, addr, devserver.WithLogger(newLogger()))
	if err != nil {
		return fmt.Errorf("binding %s: %w", addr, err)
	}

	srv.Start()
	fmt.Printf("%s Serving %s on %s\n",
		SuccessStyle.Render("✓"),
		ValueStyle.Render(root),
		ValueStyle.Render("http://"+srv.Address()))

	// fang delivers os.Interrupt through the command context.
	<-cmd.Context().Done()
	return srv.Stop()
}
