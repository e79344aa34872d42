package tipbook

import (
	"context"
	"errors"
)

// ErrNoBuilds is returned by BuildStore.LatestBuild when no build has been
// recorded yet, e.g. on the first run against a fresh output directory.
var ErrNoBuilds = errors.New("tipbook: no recorded builds")

// Build is one completed catalog build.
type Build struct {
	ID         string
	SourceDir  string
	StartedAt  int64 // unix seconds
	FinishedAt int64
	Sections   int
	Entries    int
	Written    int // pages written this build
	Skipped    int // pages skipped as unchanged
}

// PageRecord ties one rendered page to the content hash it was built from.
// The renderer compares hashes against the previous build to skip pages
// whose content did not change.
type PageRecord struct {
	BuildID     string
	Path        string // output path relative to the output directory
	ContentHash string // hex SHA-256 of the rendered page bytes
}

// BuildStore persists build manifests between runs. The store/sqlite
// package implements it on a local SQLite file in the output directory.
type BuildStore interface {
	// Init creates required tables. Safe to call on every run.
	Init(ctx context.Context) error
	// RecordBuild stores a finished build and its page records atomically.
	RecordBuild(ctx context.Context, b Build, pages []PageRecord) error
	// LatestBuild returns the most recent build, or ErrNoBuilds.
	LatestBuild(ctx context.Context) (Build, error)
	// Pages returns the page records of the given build.
	Pages(ctx context.Context, buildID string) ([]PageRecord, error)
	Close() error
}
