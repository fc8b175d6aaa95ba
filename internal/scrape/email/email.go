// Package email turns LinkedIn job-alert e-mails in an IMAP inbox into
// raw postings.
package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"easyapply-engine/internal/apperr"
	"easyapply-engine/internal/domain"
	"easyapply-engine/internal/scrape/types"
	"easyapply-engine/internal/scrape/util"

	"github.com/emersion/go-imap/v2"
	"go.uber.org/zap"
)

const Name = "Email"

type Config struct {
	Addr      string // host:port
	Username  string
	Mailbox   string
	Subjects  []string // any-of, case-insensitive; empty accepts every subject
	MaxEmails int
	MarkSeen  bool
	MaxAge    time.Duration
}

// PasswordFunc resolves the IMAP password at fetch time so a password
// saved after startup is picked up.
type PasswordFunc func() (string, error)

type Scraper struct {
	cfg      Config
	password PasswordFunc
	log      *zap.Logger
	now      func() time.Time
}

func New(cfg Config, password PasswordFunc, log *zap.Logger) *Scraper {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if cfg.MaxEmails <= 0 {
		cfg.MaxEmails = 200
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 90 * 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{cfg: cfg, password: password, log: log.With(zap.String("source", Name)), now: time.Now}
}

func (s *Scraper) Name() string { return Name }

// Fetch reads unseen alert e-mails. The query is not used for filtering
// here; alerts were already matched by LinkedIn and get scored downstream.
func (s *Scraper) Fetch(ctx context.Context, _ types.Query, limit int) ([]domain.RawPosting, error) {
	if s.password == nil {
		return nil, apperr.Unavailable("imap password not configured", nil)
	}
	pw, err := s.password()
	if err != nil || pw == "" {
		return nil, apperr.Unavailable("imap password not configured", err)
	}

	c, err := DialAndLogin(ctx, s.cfg.Addr, s.cfg.Username, pw)
	if err != nil {
		return nil, err
	}
	defer LogoutAndClose(c, s.log)

	if _, err := c.Select(s.cfg.Mailbox, &imap.SelectOptions{ReadOnly: !s.cfg.MarkSeen}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %q: %w", s.cfg.Mailbox, err)
	}

	msgs, err := FetchUnseen(ctx, c, s.now().Add(-s.cfg.MaxAge), s.cfg.MaxEmails)
	if err != nil {
		return nil, err
	}

	out, handled := s.Extract(msgs, limit)
	s.log.Info("alerts scanned",
		zap.Int("messages", len(msgs)),
		zap.Int("handled", len(handled)),
		zap.Int("postings", len(out)))

	if s.cfg.MarkSeen && len(handled) > 0 {
		if err := MarkSeen(c, handled); err != nil {
			s.log.Warn("mark seen failed", zap.Error(err))
		}
	}
	return out, nil
}

// Extract converts fetched messages into postings, newest message first.
// handled lists the messages that were recognized as job alerts.
func (s *Scraper) Extract(msgs []Message, limit int) (out []domain.RawPosting, handled []imap.UID) {
	seen := map[string]bool{}

	for _, m := range msgs {
		p, err := parseMessage(m.Raw)
		if err != nil {
			s.log.Debug("unparseable message", zap.Uint32("uid", uint32(m.UID)), zap.Error(err))
			continue
		}
		subject := p.Subject
		if subject == "" {
			subject = m.Subject
		}
		if len(s.cfg.Subjects) > 0 && !containsAnyFold(subject, s.cfg.Subjects) {
			continue
		}

		body := p.HTML
		if body == "" {
			body = p.Plain
		}
		if !IsJobAlert(m.From, subject, body) {
			continue
		}
		handled = append(handled, m.UID)

		jobs, err := ParseAlertHTML(body)
		if err != nil {
			s.log.Warn("alert parse failed", zap.String("subject", subject), zap.Error(err))
			continue
		}

		date := m.Date
		if date.IsZero() {
			date = p.Date
		}

		for _, j := range jobs {
			key := j.JobID
			if key == "" {
				key = j.URL
			}
			if seen[key] {
				continue
			}
			seen[key] = true

			if limit > 0 && len(out) >= limit {
				continue
			}
			out = append(out, toRaw(j, date))
		}
	}
	return out, handled
}

func toRaw(j AlertJob, received time.Time) domain.RawPosting {
	loc := j.Location
	if loc == "" {
		loc = "Unknown"
	}
	desc := fmt.Sprintf("%s position at %s in %s. ", j.Title, j.Company, loc)
	if j.Salary != "" {
		desc += j.Salary
	}

	var posted string
	if !received.IsZero() {
		posted = received.UTC().Format("2006-01-02")
	}

	return domain.RawPosting{
		Source:      Name,
		NativeID:    j.JobID,
		Title:       j.Title,
		Company:     j.Company,
		Location:    loc,
		Description: desc,
		URL:         j.URL,
		Posted:      posted,
		Salary:      j.Salary,
	}
}

func containsAnyFold(s string, needles []string) bool {
	ls := strings.ToLower(s)
	for _, n := range needles {
		if n = strings.ToLower(util.CleanText(n)); n != "" && strings.Contains(ls, n) {
			return true
		}
	}
	return false
}
