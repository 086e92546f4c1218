package report

import (
	"encoding/json"
	"io"

	"github.com/webfreeze/webfreeze/internal/database"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic
// processing, e.g. failing a CI deploy when a diff is unexpectedly
// non-empty.
//
// Design decision: We use standard encoding/json rather than a
// third-party JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output. When false, output is
	// compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used per level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonDiff is the JSON shape of a run comparison.
type jsonDiff struct {
	OlderRun int64        `json:"older_run"`
	NewerRun int64        `json:"newer_run"`
	Added    []jsonPage   `json:"added"`
	Removed  []jsonPage   `json:"removed"`
	Changed  []jsonChange `json:"changed"`
}

// jsonChange is the JSON shape of a changed page.
type jsonChange struct {
	URL     string `json:"url"`
	Path    string `json:"path"`
	OldHash string `json:"old_hash"`
	NewHash string `json:"new_hash"`
}

// jsonPage is the JSON shape of a stored page.
type jsonPage struct {
	URL  string `json:"url"`
	Path string `json:"path"`
	Hash string `json:"hash,omitempty"`
}

// jsonRun is the JSON shape of a run listing entry.
type jsonRun struct {
	ID           int64  `json:"id"`
	Destination  string `json:"destination"`
	StartedAt    string `json:"started_at"`
	FinishedAt   string `json:"finished_at"`
	PageCount    int    `json:"page_count"`
	WarningCount int    `json:"warning_count"`
	RemovedCount int    `json:"removed_count"`
}

// WriteDiff outputs the comparison as JSON.
func (w *JSONWriter) WriteDiff(diff *database.Diff) (int, error) {
	changed := make([]jsonChange, len(diff.Changed))
	for i, c := range diff.Changed {
		changed[i] = jsonChange{URL: c.URL, Path: c.Path, OldHash: c.OldHash, NewHash: c.NewHash}
	}
	out := jsonDiff{
		OlderRun: diff.OlderID,
		NewerRun: diff.NewerID,
		Added:    toJSONPages(diff.Added),
		Removed:  toJSONPages(diff.Removed),
		Changed:  changed,
	}
	return w.encode(out)
}

// WriteRuns outputs the run listing as JSON.
func (w *JSONWriter) WriteRuns(runs []database.RunMetadata) (int, error) {
	out := make([]jsonRun, len(runs))
	for i, run := range runs {
		out[i] = jsonRun{
			ID:           run.ID,
			Destination:  run.Destination,
			StartedAt:    run.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
			FinishedAt:   run.FinishedAt.UTC().Format("2006-01-02T15:04:05Z"),
			PageCount:    run.PageCount,
			WarningCount: run.WarningCount,
			RemovedCount: run.RemovedCount,
		}
	}
	return w.encode(out)
}

// encode marshals a value according to the indent settings and writes
// it followed by a newline.
func (w *JSONWriter) encode(v any) (int, error) {
	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}

// toJSONPages converts stored pages to their JSON shape.
func toJSONPages(pages []database.PageRecord) []jsonPage {
	out := make([]jsonPage, len(pages))
	for i, page := range pages {
		out[i] = jsonPage{URL: page.URL, Path: page.Path, Hash: page.Hash}
	}
	return out
}
