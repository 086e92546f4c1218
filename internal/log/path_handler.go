package log

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// PathHandler wraps an slog.Handler to rewrite absolute filesystem
// paths under a base directory into paths relative to it. It intercepts
// log records and rewrites string attribute values before passing them
// to the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Loggers handed to the freezer library pick it up transparently
type PathHandler struct {
	// handler is the underlying slog handler that receives rewritten
	// records.
	handler slog.Handler

	// base is the absolute directory paths are made relative to.
	base string
}

// NewPathHandler creates a PathHandler that rewrites paths under base.
// If handler is nil, the returned PathHandler uses
// slog.Default().Handler(). A relative base is resolved against the
// working directory; if that fails, paths pass through unchanged.
func NewPathHandler(handler slog.Handler, base string) *PathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	return &PathHandler{handler: handler, base: base}
}

// Enabled reports whether the handler handles records at the given
// level. It delegates to the underlying handler.
func (h *PathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it to the
// underlying handler.
func (h *PathHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})
	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added,
// rewritten first.
func (h *PathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &PathHandler{handler: h.handler.WithAttrs(rewritten), base: h.base}
}

// WithGroup returns a new handler with the given group name.
func (h *PathHandler) WithGroup(name string) slog.Handler {
	return &PathHandler{handler: h.handler.WithGroup(name), base: h.base}
}

// rewriteAttr rewrites a single attribute, recursively handling groups.
func (h *PathHandler) rewriteAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewritten[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	}

	if a.Value.Kind() == slog.KindString {
		if rel, ok := h.relativize(a.Value.String()); ok {
			return slog.String(a.Key, rel)
		}
	}
	return a
}

// relativize rewrites an absolute path under the base directory. The
// base itself becomes ".". Values outside the base, or not paths at
// all, are left untouched.
func (h *PathHandler) relativize(value string) (string, bool) {
	if h.base == "" || !filepath.IsAbs(value) {
		return "", false
	}
	if value == h.base {
		return ".", true
	}
	prefix := h.base + string(filepath.Separator)
	if !strings.HasPrefix(value, prefix) {
		return "", false
	}
	return value[len(prefix):], true
}

// NewLogger creates a *slog.Logger for CLI output. Paths under base are
// logged relative to it.
//
// Parameters:
//   - w: the io.Writer to write log output to (typically os.Stderr)
//   - base: the directory paths are relativized against, usually the
//     freeze destination; empty disables rewriting
//   - verbose: if true, sets log level to Debug; otherwise Info
func NewLogger(w io.Writer, base string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	if base == "" {
		return slog.New(textHandler)
	}
	return slog.New(NewPathHandler(textHandler, base))
}

// NewJSONLogger is NewLogger with JSON output, useful for structured
// log aggregation. Paths are not rewritten: machine consumers want the
// absolute form.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
