// Package history records refresh and enrichment runs so per-collection
// update counts and unresolved items stay queryable after the logs are
// gone.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	KindRefresh = "refresh"
	KindEnrich  = "enrich"

	IssueUnmappedSet   = "unmapped_set"
	IssueUnmatchedCard = "unmatched_card"
)

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// StartRun opens a new run record and returns its id.
func (s *Store) StartRun(ctx context.Context, kind string) (string, error) {
	id := uuid.NewString()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO runs (id, kind, started_at) VALUES (?, ?, ?)
	`, id, kind, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

func (s *Store) FinishRun(ctx context.Context, runID string) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE runs SET finished_at = ? WHERE id = ?
	`, time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordCollection stores one collection's outcome within a run.
func (s *Store) RecordCollection(ctx context.Context, runID, collection string, updated int, runErr error) error {
	var errText sql.NullString
	if runErr != nil {
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO run_collections (run_id, collection, updated, error)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, collection) DO UPDATE SET
			updated = excluded.updated,
			error = excluded.error
	`, runID, collection, updated, errText)
	if err != nil {
		return fmt.Errorf("record collection %s: %w", collection, err)
	}
	return nil
}

// RecordIssues stores unresolved items (unmapped sets, unmatched cards).
func (s *Store) RecordIssues(ctx context.Context, runID, kind string, items []string) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_issues (run_id, kind, item) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, runID, kind, item); err != nil {
			return fmt.Errorf("insert issue %q: %w", item, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// CollectionResult is one row of a run summary.
type CollectionResult struct {
	Collection string
	Updated    int
	Error      string
}

// RunSummary lists the per-collection outcomes of a run.
func (s *Store) RunSummary(ctx context.Context, runID string) ([]CollectionResult, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT collection, updated, COALESCE(error, '')
		FROM run_collections WHERE run_id = ? ORDER BY collection
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run summary: %w", err)
	}
	defer rows.Close()

	var out []CollectionResult
	for rows.Next() {
		var r CollectionResult
		if err := rows.Scan(&r.Collection, &r.Updated, &r.Error); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
