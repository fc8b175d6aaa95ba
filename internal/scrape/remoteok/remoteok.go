// Package remoteok reads the public RemoteOK JSON feed.
package remoteok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"easyapply-engine/internal/domain"
	"easyapply-engine/internal/scrape/types"
	"easyapply-engine/internal/scrape/util"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const (
	Name       = "RemoteOK"
	DefaultURL = "https://remoteok.com/api"
)

var defaultBenefits = []string{"Remote work", "Flexible hours"}

type Config struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
}

type Scraper struct {
	cfg Config
	get *util.Getter
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Scraper {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	g := util.NewGetter(cfg.UserAgent, cfg.Timeout)
	g.Accept = "application/json"
	return &Scraper{cfg: cfg, get: g, log: log.With(zap.String("source", Name))}
}

func (s *Scraper) Name() string { return Name }

// Fetch ignores the query location; RemoteOK only lists remote jobs and
// its feed is not searchable, so relevance filtering happens downstream.
func (s *Scraper) Fetch(ctx context.Context, q types.Query, limit int) ([]domain.RawPosting, error) {
	body, err := s.get.Get(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("remoteok feed: %w", err)
	}
	out, err := Parse(body)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	s.log.Debug("feed parsed", zap.Int("postings", len(out)))
	return out, nil
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// flexInt accepts a JSON number or numeric string; anything else is 0.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(v)
	return nil
}

type item struct {
	ID          flexString `json:"id"`
	Position    string     `json:"position"`
	Company     string     `json:"company"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	Date        string     `json:"date"`
	SalaryMin   flexInt    `json:"salary_min"`
	SalaryMax   flexInt    `json:"salary_max"`
	Tags        []string   `json:"tags"`
}

// Parse decodes the feed. The first array element is a legal notice and
// is always skipped; elements that are not objects are ignored.
func Parse(body []byte) ([]domain.RawPosting, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return nil, fmt.Errorf("remoteok decode: %w", err)
	}
	if len(elems) > 0 {
		elems = elems[1:]
	}

	out := make([]domain.RawPosting, 0, len(elems))
	for i, raw := range elems {
		if t := bytes.TrimSpace(raw); len(t) == 0 || t[0] != '{' {
			continue
		}
		var it item
		if err := json.Unmarshal(raw, &it); err != nil {
			continue
		}

		id := strings.TrimSpace(string(it.ID))
		if id == "" {
			id = strconv.Itoa(i)
		}

		var tags []string
		for _, t := range it.Tags {
			if t = util.CleanText(t); t != "" {
				tags = append(tags, t)
			}
		}

		out = append(out, domain.RawPosting{
			Source:      Name,
			NativeID:    id,
			Title:       strings.TrimSpace(it.Position),
			Company:     strings.TrimSpace(it.Company),
			Location:    "Remote",
			Description: strings.TrimSpace(it.Description),
			URL:         strings.TrimSpace(it.URL),
			Posted:      it.Date,
			Salary:      salary(int64(it.SalaryMin), int64(it.SalaryMax)),
			Tags:        tags,
			Benefits:    append([]string(nil), defaultBenefits...),
			Remote:      true,
			JobType:     domain.FullTime,
		})
	}
	return out, nil
}

func salary(min, max int64) string {
	if min <= 0 || max <= 0 {
		return ""
	}
	return "$" + humanize.Comma(min) + " - $" + humanize.Comma(max)
}
