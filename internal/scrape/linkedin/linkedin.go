// Package linkedin reads LinkedIn's public (logged-out) job search page.
package linkedin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"easyapply-engine/internal/domain"
	"easyapply-engine/internal/scrape/types"
	"easyapply-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	Name       = "LinkedIn"
	DefaultURL = "https://www.linkedin.com/jobs/search"

	defaultLocation = "United States"
)

type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

type Scraper struct {
	cfg Config
	get *util.Getter
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{
		cfg: cfg,
		get: util.NewGetter(cfg.UserAgent, cfg.Timeout),
		log: log.With(zap.String("source", Name)),
	}
}

func (s *Scraper) Name() string { return Name }

// SearchURL builds the past-24h search for q.
func (s *Scraper) SearchURL(q types.Query) string {
	loc := strings.TrimSpace(q.Location)
	if loc == "" {
		loc = defaultLocation
	}
	v := url.Values{}
	v.Set("keywords", q.Keywords)
	v.Set("location", loc)
	v.Set("f_TPR", "r86400")
	v.Set("position", "1")
	v.Set("pageNum", "0")
	return s.cfg.BaseURL + "?" + v.Encode()
}

func (s *Scraper) Fetch(ctx context.Context, q types.Query, limit int) ([]domain.RawPosting, error) {
	u := s.SearchURL(q)
	body, err := s.get.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("linkedin search: %w", err)
	}

	loc := strings.TrimSpace(q.Location)
	if loc == "" {
		loc = defaultLocation
	}
	out, err := Parse(bytes.NewReader(body), loc, limit)
	if err != nil {
		return nil, err
	}
	s.log.Debug("search page parsed", zap.String("url", u), zap.Int("postings", len(out)))
	return out, nil
}

// Parse reads job cards from a search results page. Cards without a
// title, company or link are skipped. limit <= 0 reads every card.
func Parse(r io.Reader, fallbackLocation string, limit int) ([]domain.RawPosting, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("linkedin parse html: %w", err)
	}

	var out []domain.RawPosting
	doc.Find("div.base-card").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if limit > 0 && i >= limit {
			return false
		}

		title := util.CleanText(card.Find("h3.base-search-card__title").First().Text())
		company := util.CleanText(card.Find("h4.base-search-card__subtitle").First().Text())
		link, _ := card.Find("a.base-card__full-link").First().Attr("href")
		link = strings.TrimSpace(link)
		if title == "" || company == "" || link == "" {
			return true
		}

		loc := util.CleanText(card.Find("span.job-search-card__location").First().Text())
		if loc == "" {
			loc = fallbackLocation
		}
		posted, _ := card.Find("time").First().Attr("datetime")

		desc := fmt.Sprintf("%s position at %s in %s. ", title, company, loc)
		desc += util.CleanText(card.Find("div.base-search-card__metadata").First().Text())

		out = append(out, domain.RawPosting{
			Source:      Name,
			Title:       title,
			Company:     company,
			Location:    loc,
			Description: desc,
			URL:         link,
			Posted:      strings.TrimSpace(posted),
		})
		return true
	})
	return out, nil
}
