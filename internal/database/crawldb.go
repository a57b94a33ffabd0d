package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitemapgen/internal/model"
)

// dbFileName is the SQLite database file name inside the data directory.
const dbFileName = "sitemapgen.db"

// CrawlDB provides SQLite-based storage for crawl runs and the pages
// fetched during them.
//
// Design decision: We use a single database file for all hosts rather
// than one per site. The compare command queries across runs of the
// same host, and a single file keeps that a plain SQL join.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// read performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an
// error is returned instead of creating an empty history.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite: mode=rw prevents creating new files,
	// mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single connection avoids
	// SQLITE_BUSY churn during page batch inserts.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per sitemap generation run
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		host TEXT NOT NULL,
		seed_url TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		pages_crawled INTEGER NOT NULL,
		pages_failed INTEGER NOT NULL,
		entries_written INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_host ON crawl_runs(host);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON crawl_runs(started_at);

	-- Pages fetched during a run
	CREATE TABLE IF NOT EXISTS crawl_pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES crawl_runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		depth INTEGER NOT NULL,
		status_code INTEGER,
		content_type TEXT,
		title TEXT,
		content_hash TEXT,
		fetch_error TEXT,
		fetched_at DATETIME,
		UNIQUE(run_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON crawl_pages(run_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON crawl_pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_hash ON crawl_pages(content_hash);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunSummary is one crawl run as listed by ListRuns.
type RunSummary struct {
	ID             int64
	Host           string
	SeedURL        string
	StartedAt      time.Time
	Duration       time.Duration
	PagesCrawled   int
	PagesFailed    int
	EntriesWritten int
}

// SaveRun stores a completed generation run and its page records in one
// transaction. It returns the new run's ID.
func (cdb *CrawlDB) SaveRun(ctx context.Context, report *model.GenerateReport, pages []model.PageRecord) (int64, error) {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO crawl_runs (host, seed_url, started_at, duration_ms, pages_crawled, pages_failed, entries_written)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.Host,
		report.SeedURL,
		report.GeneratedAt.UTC().Format(time.RFC3339),
		report.Duration.Milliseconds(),
		report.Stats.Visited,
		report.Stats.Failed,
		report.TotalEntries,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO crawl_pages (run_id, url, depth, status_code, content_type, title, content_hash, fetch_error, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, url) DO UPDATE SET
		depth = excluded.depth,
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		title = excluded.title,
		content_hash = excluded.content_hash,
		fetch_error = excluded.fetch_error,
		fetched_at = excluded.fetched_at`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare page insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pages {
		if _, err := stmt.ExecContext(ctx,
			runID,
			p.URL,
			p.Depth,
			p.StatusCode,
			p.ContentType,
			p.Title,
			p.ContentHash,
			p.FetchError,
			p.FetchedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return 0, fmt.Errorf("failed to insert page %s: %w", p.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs for a host, newest first.
// An empty host lists runs across all hosts.
func (cdb *CrawlDB) ListRuns(ctx context.Context, host string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT id, host, seed_url, started_at, duration_ms, pages_crawled, pages_failed, entries_written
	FROM crawl_runs`
	args := make([]any, 0, 2)
	if host != "" {
		query += ` WHERE host = ?`
		args = append(args, host)
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		var (
			run        RunSummary
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(
			&run.ID,
			&run.Host,
			&run.SeedURL,
			&startedAt,
			&durationMS,
			&run.PagesCrawled,
			&run.PagesFailed,
			&run.EntriesWritten,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(startedAt)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRunPages returns the page records of a run in insertion order.
func (cdb *CrawlDB) GetRunPages(ctx context.Context, runID int64) ([]model.PageRecord, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT url, depth, status_code, content_type, title, content_hash, fetch_error, fetched_at
	FROM crawl_pages
	WHERE run_id = ?
	ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run pages: %w", err)
	}
	defer rows.Close()

	pages := make([]model.PageRecord, 0)
	for rows.Next() {
		var (
			p         model.PageRecord
			fetchedAt string
		)
		if err := rows.Scan(
			&p.URL,
			&p.Depth,
			&p.StatusCode,
			&p.ContentType,
			&p.Title,
			&p.ContentHash,
			&p.FetchError,
			&fetchedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		p.FetchedAt = parseTimestamp(fetchedAt)
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// LatestRuns returns up to n most recent runs for a host, newest first.
// It is a convenience for the compare command, which needs exactly two.
func (cdb *CrawlDB) LatestRuns(ctx context.Context, host string, n int) ([]RunSummary, error) {
	return cdb.ListRuns(ctx, host, n)
}

// parseTimestamp parses a stored RFC3339 timestamp, returning the zero
// time on failure rather than propagating a corrupt-row error.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
