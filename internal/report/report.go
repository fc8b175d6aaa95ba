// Package report writes search results to disk and renders them for people.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"easyapply-engine/internal/domain"

	"github.com/gofrs/flock"
)

// LockTimeout bounds how long SaveJSON waits for another writer.
var LockTimeout = 5 * time.Second

// ExportPath returns dir/exports/jobs_<timestamp>.json.
func ExportPath(dir string, now time.Time) string {
	return filepath.Join(dir, "exports", "jobs_"+now.Format("20060102_150405")+".json")
}

// WriteJSON encodes postings as an indented array, keeping non-ASCII text as is.
func WriteJSON(w io.Writer, postings []domain.JobPosting) error {
	if postings == nil {
		postings = []domain.JobPosting{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(postings)
}

// SaveJSON writes postings to path. Concurrent writers to the same path are
// serialized through a sidecar lock file and readers never see a partial file.
func SaveJSON(ctx context.Context, path string, postings []domain.JobPosting) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	lctx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	ok, err := lock.TryLockContext(lctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return fmt.Errorf("lock %s: busy", path)
	}
	defer func() { _ = lock.Unlock() }()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, postings); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// FormatForDisplay renders postings as a numbered plain-text list.
func FormatForDisplay(postings []domain.JobPosting) string {
	rule := strings.Repeat("=", 80)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\nFound %d jobs\n%s\n\n", rule, len(postings), rule)
	for i, p := range postings {
		fmt.Fprintf(&b, "%d. %s at %s\n", i+1, p.Title, p.Company)
		fmt.Fprintf(&b, "   Location: %s\n", p.Location)
		fmt.Fprintf(&b, "   Experience: %s\n", p.ExperienceLevel)
		if p.SalaryRange != "" {
			fmt.Fprintf(&b, "   Salary: %s\n", p.SalaryRange)
		}
		fmt.Fprintf(&b, "   Source: %s\n", p.Source)
		fmt.Fprintf(&b, "   Relevance: %.1f%%\n", p.RelevanceScore)
		if len(p.Technologies) > 0 {
			techs := p.Technologies
			if len(techs) > 5 {
				techs = techs[:5]
			}
			fmt.Fprintf(&b, "   Technologies: %s\n", strings.Join(techs, ", "))
		}
		fmt.Fprintf(&b, "   URL: %s\n\n", p.URL)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
