package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"easyapply-engine/internal/apperr"
	"easyapply-engine/internal/domain"
)

// sqlite datetime() compatible, so windows can be computed in SQL.
const tsLayout = "2006-01-02 15:04:05"

type ListOpts struct {
	Sort   string // score | date | company | title
	Window string // 24h | 7d | all
	Limit  int
}

const (
	defaultListLimit = 500
	maxListLimit     = 2000
)

const postingCols = `id, title, company, location, description, requirements, technologies,
salary_range, experience_level, remote_friendly, visa_sponsorship, posted_date, source, url,
relevance_score, job_type, benefits`

// UpsertPostings stores ps. Postings already present keep their first_seen
// timestamp and get the new score and content. It returns how many ids were new.
func UpsertPostings(ctx context.Context, db *sql.DB, ps []domain.JobPosting, now time.Time) (added int, err error) {
	if len(ps) == 0 {
		return 0, nil
	}
	seen := now.UTC().Format(tsLayout)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := tx.PrepareContext(ctx, `SELECT 1 FROM postings WHERE id = ? LIMIT 1;`)
	if err != nil {
		return 0, err
	}
	defer exists.Close()

	upsert, err := tx.PrepareContext(ctx, `
INSERT INTO postings (`+postingCols+`, first_seen, last_seen)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title = excluded.title,
  company = excluded.company,
  location = excluded.location,
  description = excluded.description,
  requirements = excluded.requirements,
  technologies = excluded.technologies,
  salary_range = excluded.salary_range,
  experience_level = excluded.experience_level,
  remote_friendly = excluded.remote_friendly,
  visa_sponsorship = excluded.visa_sponsorship,
  posted_date = excluded.posted_date,
  url = excluded.url,
  relevance_score = excluded.relevance_score,
  job_type = excluded.job_type,
  benefits = excluded.benefits,
  last_seen = excluded.last_seen;`)
	if err != nil {
		return 0, err
	}
	defer upsert.Close()

	for _, p := range ps {
		var one int
		switch err := exists.QueryRowContext(ctx, p.ID).Scan(&one); {
		case errors.Is(err, sql.ErrNoRows):
			added++
		case err != nil:
			return 0, fmt.Errorf("lookup %s: %w", p.ID, err)
		}

		if _, err := upsert.ExecContext(ctx,
			p.ID, p.Title, p.Company, p.Location, p.Description,
			jsonList(p.Requirements), jsonList(p.Technologies),
			p.SalaryRange, string(p.ExperienceLevel), p.RemoteFriendly, p.VisaSponsorship,
			p.PostedDate, p.Source, p.URL, p.RelevanceScore, string(p.JobType), jsonList(p.Benefits),
			seen, seen,
		); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

func ListPostings(ctx context.Context, db *sql.DB, opts ListOpts) ([]domain.JobPosting, error) {
	// whitelisted, never user text
	order := map[string]string{
		"score":   "relevance_score DESC, first_seen DESC",
		"date":    "posted_date DESC, first_seen DESC",
		"company": "company ASC, relevance_score DESC",
		"title":   "title ASC, relevance_score DESC",
	}[opts.Sort]
	if order == "" {
		order = "relevance_score DESC, first_seen DESC"
	}

	where := ""
	switch opts.Window {
	case "24h":
		where = "WHERE last_seen >= datetime('now','-24 hours')"
	case "all":
	default:
		where = "WHERE last_seen >= datetime('now','-7 days')"
	}

	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}

	query := fmt.Sprintf(`SELECT %s FROM postings %s ORDER BY %s LIMIT ?;`, postingCols, where, order)
	rows, err := db.QueryContext(ctx, query, opts.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.JobPosting{}
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func GetPosting(ctx context.Context, db *sql.DB, id string) (domain.JobPosting, error) {
	row := db.QueryRowContext(ctx, `SELECT `+postingCols+` FROM postings WHERE id = ?;`, id)
	p, err := scanPosting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.JobPosting{}, apperr.NotFound("job "+id+" not found", err)
	}
	return p, err
}

func DeletePosting(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM postings WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("job "+id+" not found", nil)
	}
	return nil
}

// CleanupOld removes postings not seen for maxAgeDays.
func CleanupOld(ctx context.Context, db *sql.DB, maxAgeDays int) (deleted int64, err error) {
	if maxAgeDays <= 0 {
		return 0, nil
	}
	res, err := db.ExecContext(ctx,
		`DELETE FROM postings WHERE last_seen < datetime('now', ?);`,
		fmt.Sprintf("-%d days", maxAgeDays))
	if err != nil {
		return 0, fmt.Errorf("cleanup old jobs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPosting(s scanner) (domain.JobPosting, error) {
	var (
		p                 domain.JobPosting
		reqs, techs, bens string
		level, jobType    string
	)
	if err := s.Scan(
		&p.ID, &p.Title, &p.Company, &p.Location, &p.Description, &reqs, &techs,
		&p.SalaryRange, &level, &p.RemoteFriendly, &p.VisaSponsorship, &p.PostedDate, &p.Source, &p.URL,
		&p.RelevanceScore, &jobType, &bens,
	); err != nil {
		return p, err
	}
	p.ExperienceLevel = domain.ExperienceLevel(level)
	p.JobType = domain.JobType(jobType)
	p.Requirements = decodeList(reqs)
	p.Technologies = decodeList(techs)
	p.Benefits = decodeList(bens)
	return p, nil
}

// decodeList never returns nil so lists serialize as [] rather than null.
func decodeList(s string) []string {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func jsonList(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(v)
	return string(b)
}
