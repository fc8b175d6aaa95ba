package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"easyapply-engine/internal/apperr"
	"easyapply-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func posting(id, title string, score float64) domain.JobPosting {
	return domain.JobPosting{
		ID:              id,
		Title:           title,
		Company:         "Acme",
		Location:        "Remote",
		Description:     "Build services.",
		Requirements:    []string{"Go", "SQL"},
		Technologies:    []string{"Go", "PostgreSQL"},
		SalaryRange:     "$100,000 - $120,000",
		ExperienceLevel: domain.LevelSenior,
		RemoteFriendly:  true,
		PostedDate:      "2024-03-15",
		Source:          "LinkedIn",
		URL:             "https://example.com/" + id,
		RelevanceScore:  score,
		JobType:         domain.FullTime,
		Benefits:        []string{"health insurance"},
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db.Pool))

	var v int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, schemaVersion, v)
}

func TestUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	now := time.Now().UTC()

	added, err := UpsertPostings(ctx, db.Pool, []domain.JobPosting{
		posting("linkedin_1", "Go Engineer", 80),
		posting("linkedin_2", "Backend Engineer", 60),
	}, now)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	got, err := GetPosting(ctx, db.Pool, "linkedin_1")
	require.NoError(t, err)
	assert.Equal(t, posting("linkedin_1", "Go Engineer", 80), got)

	again := posting("linkedin_1", "Go Engineer", 95)
	added, err = UpsertPostings(ctx, db.Pool, []domain.JobPosting{again}, now)
	require.NoError(t, err)
	assert.Zero(t, added)

	got, err = GetPosting(ctx, db.Pool, "linkedin_1")
	require.NoError(t, err)
	assert.Equal(t, 95.0, got.RelevanceScore)
}

func TestGetAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := GetPosting(ctx, db.Pool, "nope")
	assert.True(t, apperr.Is(err, apperr.TypeNotFound))
	assert.True(t, apperr.Is(DeletePosting(ctx, db.Pool, "nope"), apperr.TypeNotFound))
}

func TestListPostingsSortAndWindow(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	now := time.Now().UTC()

	_, err := UpsertPostings(ctx, db.Pool, []domain.JobPosting{
		posting("a", "Zeta Engineer", 50),
		posting("b", "Alpha Engineer", 90),
	}, now)
	require.NoError(t, err)
	_, err = UpsertPostings(ctx, db.Pool, []domain.JobPosting{posting("old", "Old Engineer", 99)}, now.Add(-72*time.Hour))
	require.NoError(t, err)

	recent, err := ListPostings(ctx, db.Pool, ListOpts{Sort: "score", Window: "24h"})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "b", recent[0].ID)

	all, err := ListPostings(ctx, db.Pool, ListOpts{Sort: "title", Window: "all"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "old", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	limited, err := ListPostings(ctx, db.Pool, ListOpts{Sort: "'; DROP TABLE postings; --", Window: "all", Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "old", limited[0].ID)
}

func TestDeleteAndCleanup(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	now := time.Now().UTC()

	_, err := UpsertPostings(ctx, db.Pool, []domain.JobPosting{posting("keep", "Go", 50)}, now)
	require.NoError(t, err)
	_, err = UpsertPostings(ctx, db.Pool, []domain.JobPosting{
		posting("stale", "Go", 50),
		posting("gone", "Go", 50),
	}, now.AddDate(0, 0, -100))
	require.NoError(t, err)

	require.NoError(t, DeletePosting(ctx, db.Pool, "gone"))

	n, err := CleanupOld(ctx, db.Pool, 90)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	all, err := ListPostings(ctx, db.Pool, ListOpts{Window: "all"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "keep", all[0].ID)

	require.NoError(t, Checkpoint(ctx, db.Pool))
}

func TestSearchRuns(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	t0 := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, RecordSearchRun(ctx, db.Pool, SearchRun{ID: "r1", Keywords: "go", StartedAt: t0, FinishedAt: t0.Add(time.Minute), ResultCount: 3}))
	require.NoError(t, RecordSearchRun(ctx, db.Pool, SearchRun{ID: "r2", Keywords: "rust", StartedAt: t0.Add(time.Hour), FinishedAt: t0.Add(time.Hour), Error: "boom"}))

	runs, err := RecentSearchRuns(ctx, db.Pool, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r2", runs[0].ID)
	assert.Equal(t, "boom", runs[0].Error)
	assert.Equal(t, 3, runs[1].ResultCount)
	assert.True(t, t0.Equal(runs[1].StartedAt))
}

func TestEmptyListsReadBackNonNil(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	p := posting("indeed_1", "Analyst", 40)
	p.Requirements, p.Technologies, p.Benefits = nil, nil, nil
	_, err := UpsertPostings(ctx, db.Pool, []domain.JobPosting{p}, time.Now())
	require.NoError(t, err)

	got, err := GetPosting(ctx, db.Pool, "indeed_1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Requirements)
	assert.Equal(t, []string{}, got.Technologies)
	assert.Equal(t, []string{}, got.Benefits)
}
