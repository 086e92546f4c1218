package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/webfreeze/webfreeze/freezer"
)

// HistoryDB provides SQLite-based storage for freeze runs and their
// page inventories. It manages the connection and provides methods for
// recording runs and diffing them.
//
// Design decision: We use a single database file for all destinations
// rather than one file per project. Runs carry their destination, so
// one database can track several sites and queries stay simple.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// HistoryDB records freeze results.
var _ freezer.Recorder = (*HistoryDB)(nil)

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created. If false and the database doesn't exist, an error is
// returned; read-only commands like compare use this to fail with a
// clear message instead of diffing an empty database.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "history.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (record a freeze first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY surprises.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs store one row per completed freeze
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		destination TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		page_count INTEGER NOT NULL,
		warning_count INTEGER NOT NULL,
		removed_count INTEGER NOT NULL,
		warnings TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_destination ON runs(destination);
	CREATE INDEX IF NOT EXISTS idx_runs_finished ON runs(finished_at);

	-- Pages store the per-URL inventory of each run
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		path TEXT NOT NULL,
		status INTEGER,
		hash TEXT,
		size INTEGER,
		skipped INTEGER NOT NULL DEFAULT 0,
		UNIQUE(run_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Record stores a completed freeze as a new run. It implements
// freezer.Recorder, so a HistoryDB can be passed directly to
// freezer.WithRecorder. The run and its pages are written in one
// transaction; a failed record leaves no partial run behind.
func (hdb *HistoryDB) Record(ctx context.Context, result *freezer.Result) error {
	warningsJSON, err := json.Marshal(result.Warnings)
	if err != nil {
		return fmt.Errorf("failed to serialize warnings: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (destination, started_at, finished_at, page_count, warning_count, removed_count, warnings)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.Destination,
		result.StartedAt.UTC().Format(time.RFC3339Nano),
		result.FinishedAt.UTC().Format(time.RFC3339Nano),
		len(result.Pages),
		len(result.Warnings),
		len(result.Removed),
		string(warningsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO pages (run_id, url, path, status, hash, size, skipped)
	VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare page insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, page := range result.Pages {
		skipped := 0
		if page.Skipped {
			skipped = 1
		}
		if _, err := stmt.ExecContext(ctx,
			runID, page.URL, page.Path, page.Status, page.Hash, page.Size, skipped,
		); err != nil {
			return fmt.Errorf("failed to insert page %s: %w", page.URL, err)
		}
	}

	return tx.Commit()
}

// RunMetadata summarizes a stored freeze run.
type RunMetadata struct {
	ID           int64
	Destination  string
	StartedAt    time.Time
	FinishedAt   time.Time
	PageCount    int
	WarningCount int
	RemovedCount int
}

// LatestRuns returns up to limit runs, newest first. An empty
// destination returns runs for every destination.
func (hdb *HistoryDB) LatestRuns(ctx context.Context, destination string, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, destination, started_at, finished_at, page_count, warning_count, removed_count
	FROM runs
	`
	args := make([]any, 0, 2)
	if destination != "" {
		query += " WHERE destination = ?"
		args = append(args, destination)
	}
	query += " ORDER BY finished_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		var run RunMetadata
		var started, finished string
		if err := rows.Scan(
			&run.ID, &run.Destination, &started, &finished,
			&run.PageCount, &run.WarningCount, &run.RemovedCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// PageRecord is one stored page of a run.
type PageRecord struct {
	URL     string
	Path    string
	Status  int
	Hash    string
	Size    int64
	Skipped bool
}

// PagesForRun returns a run's page inventory ordered by URL.
func (hdb *HistoryDB) PagesForRun(ctx context.Context, runID int64) ([]PageRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT url, path, status, hash, size, skipped
	FROM pages WHERE run_id = ? ORDER BY url`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []PageRecord
	for rows.Next() {
		var page PageRecord
		var skipped int
		if err := rows.Scan(&page.URL, &page.Path, &page.Status, &page.Hash, &page.Size, &skipped); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		page.Skipped = skipped != 0
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// Diff is the difference between two freeze runs, keyed by URL.
type Diff struct {
	// OlderID and NewerID identify the compared runs.
	OlderID int64
	NewerID int64

	// Added are URLs present only in the newer run.
	Added []PageRecord

	// Removed are URLs present only in the older run.
	Removed []PageRecord

	// Changed are URLs whose content hash differs between runs. Pages
	// skipped by the skip-existing policy carry no hash and are never
	// reported as changed.
	Changed []PageChange
}

// PageChange is one URL whose content differs between two runs.
type PageChange struct {
	URL     string
	Path    string
	OldHash string
	NewHash string
}

// Empty reports whether the two runs have identical inventories.
func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Compare diffs two stored runs by URL.
func (hdb *HistoryDB) Compare(ctx context.Context, olderID, newerID int64) (*Diff, error) {
	older, err := hdb.PagesForRun(ctx, olderID)
	if err != nil {
		return nil, err
	}
	newer, err := hdb.PagesForRun(ctx, newerID)
	if err != nil {
		return nil, err
	}

	oldByURL := make(map[string]PageRecord, len(older))
	for _, page := range older {
		oldByURL[page.URL] = page
	}

	diff := &Diff{OlderID: olderID, NewerID: newerID}
	for _, page := range newer {
		old, existed := oldByURL[page.URL]
		if !existed {
			diff.Added = append(diff.Added, page)
			continue
		}
		delete(oldByURL, page.URL)
		if old.Hash != "" && page.Hash != "" && old.Hash != page.Hash {
			diff.Changed = append(diff.Changed, PageChange{
				URL:     page.URL,
				Path:    page.Path,
				OldHash: old.Hash,
				NewHash: page.Hash,
			})
		}
	}
	// PagesForRun orders by URL, but map iteration doesn't; re-walk the
	// older slice to keep Removed sorted.
	for _, page := range older {
		if _, still := oldByURL[page.URL]; still {
			diff.Removed = append(diff.Removed, page)
		}
	}
	return diff, nil
}

// CompareLatest diffs the two most recent runs for a destination. An
// empty destination considers runs for every destination.
func (hdb *HistoryDB) CompareLatest(ctx context.Context, destination string) (*Diff, error) {
	runs, err := hdb.LatestRuns(ctx, destination, 2)
	if err != nil {
		return nil, err
	}
	if len(runs) < 2 {
		return nil, fmt.Errorf("need at least two recorded runs to compare, have %d", len(runs))
	}
	// LatestRuns is newest-first.
	return hdb.Compare(ctx, runs[1].ID, runs[0].ID)
}

// parseTimestamp parses the formats SQLite hands back depending on how
// the value was written.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
