package store

import (
	"database/sql"
)

const schemaVersion = 1

// Migrate brings the schema up to schemaVersion, tracked in PRAGMA user_version.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= schemaVersion {
		return tx.Commit()
	}

	stmts := []string{`
CREATE TABLE IF NOT EXISTS postings (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  location TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  requirements TEXT NOT NULL DEFAULT '[]',
  technologies TEXT NOT NULL DEFAULT '[]',
  salary_range TEXT NOT NULL DEFAULT '',
  experience_level TEXT NOT NULL,
  remote_friendly INTEGER NOT NULL DEFAULT 0,
  visa_sponsorship INTEGER NOT NULL DEFAULT 0,
  posted_date TEXT NOT NULL,
  source TEXT NOT NULL,
  url TEXT NOT NULL,
  relevance_score REAL NOT NULL DEFAULT 0,
  job_type TEXT NOT NULL DEFAULT '',
  benefits TEXT NOT NULL DEFAULT '[]',
  first_seen TEXT NOT NULL,
  last_seen TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS search_runs (
  id TEXT PRIMARY KEY,
  keywords TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  started_at TEXT NOT NULL,
  finished_at TEXT NOT NULL,
  result_count INTEGER NOT NULL DEFAULT 0,
  error TEXT NOT NULL DEFAULT ''
);`,
		`CREATE INDEX IF NOT EXISTS idx_postings_first_seen ON postings(first_seen);`,
		`CREATE INDEX IF NOT EXISTS idx_postings_last_seen ON postings(last_seen);`,
		`CREATE INDEX IF NOT EXISTS idx_search_runs_started ON search_runs(started_at);`,
		`PRAGMA user_version = 1;`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}
	return tx.Commit()
}
