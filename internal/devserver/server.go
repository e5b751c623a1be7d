// SPDX-License-Identifier: MPL-2.0

// Package devserver exposes the local image cache over HTTP so dev
// machines on the same network can pull cached builds instead of going
// to the remote store themselves.
package devserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"imgfetch-cli/internal/cache"
	"imgfetch-cli/internal/locate"
	"imgfetch-cli/pkg/types"
)

// ErrNoCachedBuild is returned by LatestBuild when a board has no
// complete cached build.
var ErrNoCachedBuild = errors.New("no cached build for board")

// Server serves the cache root as static files plus a small build
// lookup API. Not started until Start() is called.
type Server struct {
	layout     cache.Layout
	logger     *log.Logger
	httpServer *http.Server
	listener   net.Listener
	addr       string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request/lifecycle logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a Server bound to addr. An empty host binds all
// interfaces; port 0 picks a free port (the effective address is
// available from Address()).
func New(layout cache.Layout, addr types.ListenAddr, opts ...Option) (*Server, error) {
	listener, err := net.Listen("tcp", addr.String())
	if err != nil {
		return nil, err
	}

	s := &Server{
		layout:   layout,
		logger:   log.Default(),
		listener: listener,
		addr:     listener.Addr().String(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/latestbuild", s.handleLatestBuild)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/", s.logRequests(http.FileServer(http.Dir(layout.Root))))

	s.httpServer = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // images are large
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Start begins accepting connections. Non-blocking.
func (s *Server) Start() {
	s.logger.Info("serving image cache", "addr", s.addr, "root", s.layout.Root)
	go func() {
		if err := s.httpServer.Serve(s.listener); err != http.ErrServerClosed {
			s.logger.Error("http server stopped", "err", err)
		}
	}()
}

// Stop gracefully shuts down the server, draining in-flight downloads
// for up to five seconds.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Address returns the effective listen address, e.g. "[::]:8080".
func (s *Server) Address() string {
	return s.addr
}

// LatestBuild returns the highest-versioned cached build directory for
// the board.
func (s *Server) LatestBuild(board types.BoardName) (string, error) {
	builds, err := s.layout.Builds(board)
	if err != nil {
		return "", err
	}
	best := ""
	for _, b := range builds {
		if !b.HasDir {
			continue
		}
		if best == "" || locate.CompareVersions(b.Version, best) > 0 {
			best = b.Version
		}
	}
	if best == "" {
		return "", ErrNoCachedBuild
	}
	return best, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleLatestBuild answers GET /latestbuild?board=<name> with the
// highest cached version for that board as plain text.
func (s *Server) handleLatestBuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	board := types.BoardName(r.URL.Query().Get("board"))
	if ok, _ := board.IsValid(); !ok {
		http.Error(w, "missing or invalid board parameter", http.StatusBadRequest)
		return
	}

	version, err := s.LatestBuild(board)
	switch {
	case errors.Is(err, ErrNoCachedBuild):
		http.Error(w, "no cached build for board "+board.String(), http.StatusNotFound)
		return
	case err != nil:
		s.logger.Error("latest build lookup failed", "board", board, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(version))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
