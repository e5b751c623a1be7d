// SPDX-License-Identifier: MPL-2.0

// Package fetcher orchestrates one fetch: resolve the remote archive,
// reuse or refresh the cached copy, extract the requested image
// variants and repoint the board alias.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"imgfetch-cli/internal/cache"
	"imgfetch-cli/internal/extract"
	"imgfetch-cli/internal/gstorage"
	"imgfetch-cli/internal/locate"
	"imgfetch-cli/internal/variant"
	"imgfetch-cli/pkg/types"
)

// ErrMissingVariants is the sentinel error wrapped by MissingVariantsError.
var ErrMissingVariants = errors.New("requested variants missing from archive")

type (
	// Request describes one fetch. Variants holds raw user-supplied
	// variant names; they are validated before any remote call.
	Request struct {
		Channel  types.ChannelName
		Board    types.BoardName
		Pattern  string
		Variants []string
		// Alias is the per-board symlink to repoint at the extracted
		// build. The zero value skips the pointer update.
		Alias types.AliasName
		// FailOnMissing turns absent requested variants from a reported
		// condition into an error.
		FailOnMissing bool
	}

	// Report summarizes what one fetch did. Missing is informational
	// unless the request set FailOnMissing.
	Report struct {
		Identity  locate.ArchiveIdentity
		CacheHit  bool
		Extracted []string
		Missing   []string
		TargetDir string
		AliasPath string
	}

	// MissingVariantsError is returned when FailOnMissing is set and the
	// archive lacks one or more requested image files. The report it
	// carries is complete: everything present was still extracted.
	MissingVariantsError struct {
		Report Report
	}

	// Service runs fetches against one remote store and one local cache
	// root.
	Service struct {
		client gstorage.Client
		layout cache.Layout
		logger *log.Logger
	}

	// Option configures a Service.
	Option func(*Service)
)

// Error implements the error interface for MissingVariantsError.
func (e *MissingVariantsError) Error() string {
	return fmt.Sprintf("archive %s lacks requested image(s): %s",
		e.Report.Identity.Version, strings.Join(e.Report.Missing, ", "))
}

// Unwrap returns ErrMissingVariants for errors.Is() compatibility.
func (e *MissingVariantsError) Unwrap() error { return ErrMissingVariants }

// WithLogger sets the logger used for step narration.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a Service over the given remote client and cache
// layout.
func NewService(client gstorage.Client, layout cache.Layout, opts ...Option) *Service {
	s := &Service{
		client: client,
		layout: layout,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one fetch end to end. Input validation happens before
// any remote call; the alias is repointed last, after extraction
// succeeded, so it never names a partially extracted build.
func (s *Service) Run(ctx context.Context, req Request) (Report, error) {
	requested, err := variant.ParseAll(req.Variants)
	if err != nil {
		return Report{}, err
	}
	identity, err := locate.Resolve(ctx, s.client, req.Channel, req.Board, req.Pattern)
	if err != nil {
		return Report{}, err
	}
	s.logger.Info("resolved archive", "version", identity.Version, "object", identity.Object)

	archivePath := s.layout.ArchivePath(identity.Board, identity.Version)
	report := Report{Identity: identity}

	// A failed size lookup makes the cached copy unverifiable, so it is
	// treated as stale and re-downloaded.
	expected := int64(-1)
	if attrs, err := s.client.Attrs(ctx, identity.Object); err != nil {
		s.logger.Warn("remote size lookup failed, forcing re-download", "err", err)
	} else {
		expected = attrs.Size
	}

	entry := cache.NewEntry(archivePath, expected)
	if entry.Fresh() {
		report.CacheHit = true
		s.logger.Info("cached archive is current", "path", archivePath, "size", entry.ActualSize)
	} else {
		s.logger.Info("downloading archive", "object", identity.Object, "size", expected)
		n, err := cache.Download(ctx, s.client, identity.Object, archivePath)
		if err != nil {
			return report, fmt.Errorf("downloading %s: %w", identity.Object, err)
		}
		s.logger.Info("download complete", "bytes", n)
	}

	available, err := extract.List(archivePath)
	if err != nil {
		return report, err
	}
	rec := variant.Reconcile(requested, available)
	report.Missing = rec.Missing

	destDir := s.layout.ExtractDir(identity.Board, identity.Version)
	report.TargetDir = destDir
	s.logger.Info("extracting images", "dest", destDir, "count", len(rec.ToExtract))
	extracted, err := extract.Extract(archivePath, destDir, rec.Exclude)
	if err != nil {
		return report, err
	}
	report.Extracted = extracted

	if !req.Alias.IsZero() {
		aliasPath := s.layout.AliasPath(identity.Board, req.Alias)
		if err := cache.UpdatePointer(aliasPath, destDir); err != nil {
			return report, fmt.Errorf("updating alias %s: %w", aliasPath, err)
		}
		report.AliasPath = aliasPath
		s.logger.Info("alias updated", "alias", aliasPath, "target", destDir)
	}

	if len(report.Missing) > 0 {
		s.logger.Warn("requested images missing from archive", "missing", strings.Join(report.Missing, ", "))
		if req.FailOnMissing {
			return report, &MissingVariantsError{Report: report}
		}
	}
	return report, nil
}
