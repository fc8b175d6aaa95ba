package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SearchRun records one executed search.
type SearchRun struct {
	ID          string    `json:"id"`
	Keywords    string    `json:"keywords"`
	Location    string    `json:"location"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	ResultCount int       `json:"result_count"`
	Error       string    `json:"error,omitempty"`
}

func RecordSearchRun(ctx context.Context, db *sql.DB, r SearchRun) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO search_runs (id, keywords, location, started_at, finished_at, result_count, error)
VALUES (?, ?, ?, ?, ?, ?, ?);`,
		r.ID, r.Keywords, r.Location,
		r.StartedAt.UTC().Format(tsLayout), r.FinishedAt.UTC().Format(tsLayout),
		r.ResultCount, r.Error,
	)
	if err != nil {
		return fmt.Errorf("record search run: %w", err)
	}
	return nil
}

// RecentSearchRuns returns the latest runs, newest first.
func RecentSearchRuns(ctx context.Context, db *sql.DB, limit int) ([]SearchRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, keywords, location, started_at, finished_at, result_count, error
FROM search_runs
ORDER BY started_at DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SearchRun{}
	for rows.Next() {
		var (
			r               SearchRun
			started, finish string
		)
		if err := rows.Scan(&r.ID, &r.Keywords, &r.Location, &started, &finish, &r.ResultCount, &r.Error); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(tsLayout, started)
		r.FinishedAt, _ = time.Parse(tsLayout, finish)
		out = append(out, r)
	}
	return out, rows.Err()
}
