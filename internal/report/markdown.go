package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/webfreeze/webfreeze/internal/database"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for deploy reviews: paste the diff into a
// pull request or chat and reviewers see exactly what a rebuild
// changed.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteDiff outputs the comparison in Markdown format.
func (w *MarkdownWriter) WriteDiff(diff *database.Diff) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Freeze Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Older run", strconv.FormatInt(diff.OlderID, 10)},
			{"Newer run", strconv.FormatInt(diff.NewerID, 10)},
			{"Added", strconv.Itoa(len(diff.Added))},
			{"Removed", strconv.Itoa(len(diff.Removed))},
			{"Changed", strconv.Itoa(len(diff.Changed))},
		},
	})
	md.PlainText("")

	w.writeAlert(md, diff)

	if !diff.Empty() {
		w.writePieChart(md, diff)
	}

	if len(diff.Added) > 0 {
		md.H2("Added")
		md.PlainText("")
		w.writePageTable(md, diff.Added)
	}
	if len(diff.Removed) > 0 {
		md.H2("Removed")
		md.PlainText("")
		w.writePageTable(md, diff.Removed)
	}
	if len(diff.Changed) > 0 {
		md.H2("Changed")
		md.PlainText("")
		rows := make([][]string, len(diff.Changed))
		for i, change := range diff.Changed {
			rows[i] = []string{
				"`" + change.URL + "`",
				change.Path,
				shortHash(change.OldHash),
				shortHash(change.NewHash),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"URL", "Path", "Old Hash", "New Hash"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteRuns outputs the run listing in Markdown format.
func (w *MarkdownWriter) WriteRuns(runs []database.RunMetadata) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Freeze History")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No recorded freeze runs.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			strconv.FormatInt(run.ID, 10),
			run.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(run.PageCount),
			strconv.Itoa(run.WarningCount),
			strconv.Itoa(run.RemovedCount),
			"`" + run.Destination + "`",
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Run", "Finished", "Pages", "Warnings", "Removed", "Destination"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeAlert writes a GitHub-flavored alert summarizing the diff.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, diff *database.Diff) {
	switch {
	case diff.Empty():
		md.Tip("No differences: both runs froze identical content.")
	case len(diff.Removed) > 0:
		md.Warningf(
			"%d URL(s) disappeared between runs. Removed pages break inbound links; make sure this is intentional.",
			len(diff.Removed),
		)
	default:
		md.Note(fmt.Sprintf("%d URL(s) added, %d changed.", len(diff.Added), len(diff.Changed)))
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the diff composition.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, diff *database.Diff) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Diff Composition"),
		piechart.WithShowData(true),
	)
	if len(diff.Added) > 0 {
		chart.LabelAndIntValue("Added", uint64(len(diff.Added)))
	}
	if len(diff.Removed) > 0 {
		chart.LabelAndIntValue("Removed", uint64(len(diff.Removed)))
	}
	if len(diff.Changed) > 0 {
		chart.LabelAndIntValue("Changed", uint64(len(diff.Changed)))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writePageTable writes a table of stored pages.
func (w *MarkdownWriter) writePageTable(md *markdown.Markdown, pages []database.PageRecord) {
	rows := make([][]string, len(pages))
	for i, page := range pages {
		rows[i] = []string{"`" + page.URL + "`", page.Path}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Path"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by webfreeze*")
}
