package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/webfreeze/webfreeze/internal/config"
	"github.com/webfreeze/webfreeze/internal/database"
	"github.com/webfreeze/webfreeze/internal/report"
)

// NewCompareCmd creates the compare command.
// This command compares freeze runs recorded in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare recorded freeze runs",
		Long: `Compare shows the differences between recorded freeze runs.

Runs are recorded when a freeze is executed with the history recorder
attached. The comparison lists pages that were added, removed, or whose
content changed between the two most recent runs for the destination.

Examples:
  # Compare the two latest runs for ./build
  webfreeze compare

  # List recorded runs for ./build
  webfreeze compare --list

  # Compare the latest run against a specific earlier run
  webfreeze compare --with-run-id 5

  # Ignore the destination filter and consider every recorded run
  webfreeze compare --all-destinations --list

  # Write a Markdown report to a file (a summary still prints)
  webfreeze compare --markdown -o report.md`,
		Args: cobra.NoArgs,
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List recorded freeze runs instead of comparing")
	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of runs to list")
	cmd.Flags().BoolP("all-destinations", "A", false,
		"Consider runs for every destination, not just the configured one")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare the latest run against this run ID (use --list to see IDs)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the specified file path (creates directories if needed)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("limit") {
		cfg.HistoryLimit, err = cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	listRuns, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	allDestinations, err := cmd.Flags().GetBool("all-destinations")
	if err != nil {
		return err
	}
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}

	logger := setupLogger(os.Stderr, cfg)

	// Runs record the absolute destination, so resolve the configured
	// one the same way before filtering.
	destFilter := ""
	if !allDestinations {
		destFilter, err = filepath.Abs(cfg.Destination)
		if err != nil {
			return err
		}
	}

	// Comparing is read-only: a missing database means nothing was ever
	// recorded, which deserves a clear message instead of an empty file.
	logger.Debug("opening history database", "path", cfg.DatabasePath())
	db, err := database.Open(cfg.DBDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no freeze history found (record runs by freezing with a history recorder): %w", err)
	}
	defer db.Close()

	writer, cleanup, err := newReportWriter(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()

	if listRuns {
		return listFreezeRuns(ctx, db, writer, destFilter, cfg.HistoryLimit)
	}
	return runComparison(ctx, db, writer, destFilter, withRunID, cfg.HistoryLimit)
}

// listFreezeRuns writes the recorded run history.
func listFreezeRuns(ctx context.Context, db *database.HistoryDB, writer report.Writer, destination string, limit int) error {
	runs, err := db.LatestRuns(ctx, destination, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No recorded freeze runs found.")
		fmt.Println("\nRuns are recorded when a freeze executes with a history recorder attached.")
		return nil
	}

	if _, err := writer.WriteRuns(runs); err != nil {
		return fmt.Errorf("failed to write run listing: %w", err)
	}
	return nil
}

// runComparison diffs two runs and writes the report.
func runComparison(ctx context.Context, db *database.HistoryDB, writer report.Writer, destination string, withRunID int64, limit int) error {
	var diff *database.Diff
	var err error

	if withRunID > 0 {
		diff, err = compareAgainstRun(ctx, db, destination, withRunID, limit)
	} else {
		diff, err = db.CompareLatest(ctx, destination)
	}
	if err != nil {
		return err
	}

	if _, err := writer.WriteDiff(diff); err != nil {
		return fmt.Errorf("failed to write comparison report: %w", err)
	}
	return nil
}

// compareAgainstRun diffs the latest run against an explicitly chosen
// earlier run.
func compareAgainstRun(ctx context.Context, db *database.HistoryDB, destination string, withRunID int64, limit int) (*database.Diff, error) {
	runs, err := db.LatestRuns(ctx, destination, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no recorded freeze runs found")
	}

	latest := runs[0]
	if withRunID == latest.ID {
		return nil, fmt.Errorf("run %d is already the latest run; pick an earlier one", withRunID)
	}

	// Validate the ID against the listing the user picked it from.
	found := false
	for _, run := range runs {
		if run.ID == withRunID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("run %d not found (use --list to see available IDs, or raise --limit for older runs)", withRunID)
	}

	return db.Compare(ctx, withRunID, latest.ID)
}

// newReportWriter builds the report writer for the requested format.
// When an output file is set, the formatted report goes to the file and
// a plain-text summary still prints to stdout. The returned cleanup
// closes the file.
func newReportWriter(cfg *config.Config) (report.Writer, func() error, error) {
	formatted := func(w io.Writer) report.Writer {
		switch {
		case cfg.JSONReport:
			return report.NewJSONWriter(w, report.WithPrettyPrint())
		case cfg.MarkdownReport:
			return report.NewMarkdownWriter(w)
		default:
			return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
		}
	}

	if cfg.ReportFile == "" {
		return formatted(os.Stdout), func() error { return nil }, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	writer := report.NewMultiWriter(
		formatted(f),
		report.NewSimpleWriter(os.Stdout, report.WithVerbose(cfg.Verbose)),
	)
	return writer, f.Close, nil
}
