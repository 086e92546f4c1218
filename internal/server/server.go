package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/webfreeze/webfreeze/freezer"
)

// shutdownTimeout bounds how long in-flight requests may run once the
// server is asked to stop.
const shutdownTimeout = 5 * time.Second

// Server serves a frozen site from its destination directory.
type Server struct {
	// root is the destination directory.
	root string

	// addr is the listen address.
	addr string

	// basePath is the base URL's path prefix. Requests carrying it are
	// served as if it were absent, so absolute links frozen for a
	// subdirectory deployment keep working locally.
	basePath string

	// defaultMime is served for files with unknown extensions.
	defaultMime string

	logger *slog.Logger
}

// New creates a preview server for the destination directory.
// baseURL may be empty; only its path component matters here.
func New(root, addr, baseURL, defaultMime string, logger *slog.Logger) (*Server, error) {
	basePath := ""
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
		}
		basePath = strings.TrimSuffix(parsed.Path, "/")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		root:        root,
		addr:        addr,
		basePath:    basePath,
		defaultMime: defaultMime,
		logger:      logger,
	}, nil
}

// Handler returns the HTTP handler serving the frozen site.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.serve)
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.logger.Info("preview server listening", "addr", s.addr, "root", s.root)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

// serve maps one request onto the frozen file tree.
func (s *Server) serve(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	urlPath := req.URL.Path
	if s.basePath != "" {
		switch {
		case urlPath == s.basePath:
			urlPath = "/"
		case strings.HasPrefix(urlPath, s.basePath+"/"):
			urlPath = urlPath[len(s.basePath):]
		}
	}

	rel, err := freezer.FilePath(urlPath)
	if err != nil {
		// Traversal attempts and malformed paths look the same to the
		// client: there is no such page.
		http.NotFound(w, req)
		return
	}

	filename := filepath.Join(s.root, filepath.FromSlash(rel))
	info, err := os.Stat(filename)
	if err != nil || info.IsDir() {
		// A directory URL without its trailing slash: redirect the way
		// static hosts do, so relative links resolve correctly.
		if !strings.HasSuffix(urlPath, "/") {
			if indexInfo, err := os.Stat(filepath.Join(filename, "index.html")); err == nil && !indexInfo.IsDir() {
				http.Redirect(w, req, req.URL.Path+"/", http.StatusMovedPermanently)
				return
			}
		}
		http.NotFound(w, req)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = s.defaultMime
	}
	w.Header().Set("Content-Type", contentType)

	file, err := os.Open(filename)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer file.Close()

	s.logger.Debug("serving frozen file", "url", req.URL.Path, "path", filename)
	http.ServeContent(w, req, filepath.Base(filename), info.ModTime(), file)
}
