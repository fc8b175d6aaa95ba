package types

import (
	"context"

	"easyapply-engine/internal/domain"
)

// Query is one user search as handed to every source.
type Query struct {
	Keywords   string `json:"keywords"`
	Location   string `json:"location"`
	MaxResults int    `json:"max_results"`
}

// Fetcher pulls raw postings for a query from one job board.
// Implementations return at most limit postings; limit <= 0 means no cap.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, q Query, limit int) ([]domain.RawPosting, error)
}

// ScrapeStatus describes the most recent background search run.
type ScrapeStatus struct {
	RunID     string `json:"run_id"`
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	LastAdded int    `json:"last_added"`
	Running   bool   `json:"running"`
}
