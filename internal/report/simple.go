package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/webfreeze/webfreeze/internal/database"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose includes content hashes in diff output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with content hashes.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given
// writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteDiff outputs the comparison in human-readable format.
func (w *SimpleWriter) WriteDiff(diff *database.Diff) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Comparing run %d against run %d\n", diff.NewerID, diff.OlderID)
	fmt.Fprintf(&sb, "%s\n\n", strings.Repeat("=", 40))

	if diff.Empty() {
		sb.WriteString("No differences: both runs froze identical content.\n")
		return io.WriteString(w.output, sb.String())
	}

	if len(diff.Added) > 0 {
		fmt.Fprintf(&sb, "Added (%d):\n", len(diff.Added))
		for _, page := range diff.Added {
			fmt.Fprintf(&sb, "  + %s -> %s\n", page.URL, page.Path)
		}
		sb.WriteString("\n")
	}

	if len(diff.Removed) > 0 {
		fmt.Fprintf(&sb, "Removed (%d):\n", len(diff.Removed))
		for _, page := range diff.Removed {
			fmt.Fprintf(&sb, "  - %s -> %s\n", page.URL, page.Path)
		}
		sb.WriteString("\n")
	}

	if len(diff.Changed) > 0 {
		fmt.Fprintf(&sb, "Changed (%d):\n", len(diff.Changed))
		for _, change := range diff.Changed {
			if w.verbose {
				fmt.Fprintf(&sb, "  ~ %s (%s -> %s)\n",
					change.URL, shortHash(change.OldHash), shortHash(change.NewHash))
			} else {
				fmt.Fprintf(&sb, "  ~ %s\n", change.URL)
			}
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Total: %d added, %d removed, %d changed\n",
		len(diff.Added), len(diff.Removed), len(diff.Changed))

	return io.WriteString(w.output, sb.String())
}

// WriteRuns outputs the run listing in human-readable format.
func (w *SimpleWriter) WriteRuns(runs []database.RunMetadata) (int, error) {
	var sb strings.Builder

	if len(runs) == 0 {
		sb.WriteString("No recorded freeze runs.\n")
		return io.WriteString(w.output, sb.String())
	}

	fmt.Fprintf(&sb, "%-6s %-20s %7s %9s %8s  %s\n",
		"RUN", "FINISHED", "PAGES", "WARNINGS", "REMOVED", "DESTINATION")
	for _, run := range runs {
		fmt.Fprintf(&sb, "%-6d %-20s %7d %9d %8d  %s\n",
			run.ID,
			run.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			run.PageCount,
			run.WarningCount,
			run.RemovedCount,
			run.Destination,
		)
	}

	return io.WriteString(w.output, sb.String())
}

// shortHash abbreviates a content hash for terminal display.
func shortHash(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:12]
}
