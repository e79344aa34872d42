// Package sqlite implements tipbook.BuildStore on a local SQLite file
// using the pure-Go driver. Zero CGO required.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nevindra/tipbook"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// StoreOption configures a SQLite Store.
type StoreOption func(*Store)

// WithLogger sets a structured logger for the store. When set, the store
// emits debug logs for every operation including timing and row counts.
// If not set, no logs are emitted.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// Store implements tipbook.BuildStore backed by a local SQLite file,
// conventionally `.tipbook.db` inside the output directory.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ tipbook.BuildStore = (*Store)(nil)

// New creates a Store using a local SQLite file at dbPath.
// It opens a single shared connection pool with SetMaxOpenConns(1) so all
// goroutines serialize through one connection, eliminating SQLITE_BUSY
// errors from concurrent writers.
func New(dbPath string, opts ...StoreOption) *Store {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		// sql.Open only fails when the driver is not registered; with the
		// blank import above that never happens.
		panic(fmt.Sprintf("sqlite: open driver: %v", err))
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db, logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(s)
	}
	s.logger.Debug("sqlite: store opened", "path", dbPath)
	return s
}

// Init creates all required tables.
func (s *Store) Init(ctx context.Context) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id TEXT PRIMARY KEY,
			source_dir TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			sections INTEGER NOT NULL,
			entries INTEGER NOT NULL,
			written INTEGER NOT NULL,
			skipped INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pages (
			build_id TEXT NOT NULL,
			path TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			PRIMARY KEY (build_id, path)
		)`,
	}
	for _, ddl := range tables {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	s.logger.Debug("sqlite: init complete")
	return nil
}

// RecordBuild stores a finished build and its page records in one
// transaction.
func (s *Store) RecordBuild(ctx context.Context, b tipbook.Build, pages []tipbook.PageRecord) error {
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO builds (id, source_dir, started_at, finished_at, sections, entries, written, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.SourceDir, b.StartedAt, b.FinishedAt, b.Sections, b.Entries, b.Written, b.Skipped,
	); err != nil {
		return fmt.Errorf("insert build: %w", err)
	}

	for _, p := range pages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pages (build_id, path, content_hash) VALUES (?, ?, ?)`,
			b.ID, p.Path, p.ContentHash,
		); err != nil {
			return fmt.Errorf("insert page %s: %w", p.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Debug("sqlite: build recorded",
		"build_id", b.ID, "pages", len(pages), "took", time.Since(start))
	return nil
}

// LatestBuild returns the most recently started build, or
// tipbook.ErrNoBuilds when the store is empty.
func (s *Store) LatestBuild(ctx context.Context) (tipbook.Build, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_dir, started_at, finished_at, sections, entries, written, skipped
		 FROM builds ORDER BY started_at DESC, id DESC LIMIT 1`)

	var b tipbook.Build
	err := row.Scan(&b.ID, &b.SourceDir, &b.StartedAt, &b.FinishedAt,
		&b.Sections, &b.Entries, &b.Written, &b.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return tipbook.Build{}, tipbook.ErrNoBuilds
	}
	if err != nil {
		return tipbook.Build{}, fmt.Errorf("query latest build: %w", err)
	}
	return b, nil
}

// Pages returns the page records of the given build, ordered by path.
func (s *Store) Pages(ctx context.Context, buildID string) ([]tipbook.PageRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT build_id, path, content_hash FROM pages WHERE build_id = ? ORDER BY path`,
		buildID)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer rows.Close()

	var pages []tipbook.PageRecord
	for rows.Next() {
		var p tipbook.PageRecord
		if err := rows.Scan(&p.BuildID, &p.Path, &p.ContentHash); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
