// Package indeed reads Indeed's search result page.
package indeed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"easyapply-engine/internal/domain"
	"easyapply-engine/internal/scrape/types"
	"easyapply-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	Name       = "Indeed"
	DefaultURL = "https://www.indeed.com/jobs"
	siteRoot   = "https://www.indeed.com"

	defaultLocation = "United States"
	defaultCompany  = "Company"
)

// Indeed renames its markup every so often; each list is tried in order
// and the first selector with a match wins.
var (
	cardSelectors     = []string{"div.job_seen_beacon", "div.jobsearch-SerpJobCard", "div.slider_container"}
	titleSelectors    = []string{"h2.jobTitle", "a[data-testid='job-title']", "span[title]"}
	companySelectors  = []string{"[data-testid='company-name']", "span.companyName"}
	locationSelectors = []string{"[data-testid='job-location']", "div.locationsContainer", "span.location"}
	linkSelectors     = []string{"a.jcs-JobTitle", "a[data-testid='job-title']", "a[href]"}
	snippetSelectors  = []string{"div.job-snippet", "div.summary", "[data-testid='job-snippet']"}
	salarySelectors   = []string{"div.salary-snippet", "span.salary"}
	dateSelectors     = []string{"span.date", "[data-testid='job-posted-date']"}
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

// SearchURL builds the last-7-days, newest-first search for q.
func (s *Scraper) SearchURL(q types.Query) string {
	loc := strings.TrimSpace(q.Location)
	if loc == "" {
		loc = defaultLocation
	}
	v := url.Values{}
	v.Set("q", q.Keywords)
	v.Set("l", loc)
	v.Set("fromage", "7")
	v.Set("sort", "date")
	return s.cfg.BaseURL + "?" + v.Encode()
}

func (s *Scraper) Fetch(ctx context.Context, q types.Query, limit int) ([]domain.RawPosting, error) {
	u := s.SearchURL(q)
	body, err := s.get.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("indeed search: %w", err)
	}

	loc := strings.TrimSpace(q.Location)
	if loc == "" {
		loc = defaultLocation
	}
	out, err := Parse(bytes.NewReader(body), u, loc, limit)
	if err != nil {
		return nil, err
	}
	s.log.Debug("search page parsed", zap.String("url", u), zap.Int("postings", len(out)))
	return out, nil
}

func first(sel *goquery.Selection, selectors []string) *goquery.Selection {
	for _, q := range selectors {
		if m := sel.Find(q).First(); m.Length() > 0 {
			return m
		}
	}
	return nil
}

func firstText(sel *goquery.Selection, selectors []string) string {
	if m := first(sel, selectors); m != nil {
		return util.CleanText(m.Text())
	}
	return ""
}

// Parse reads job cards from a result page. searchURL doubles as the link
// of cards that carry none. limit <= 0 reads every card.
func Parse(r io.Reader, searchURL, fallbackLocation string, limit int) ([]domain.RawPosting, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("indeed parse html: %w", err)
	}

	var cards *goquery.Selection
	for _, q := range cardSelectors {
		if cards = doc.Find(q); cards.Length() > 0 {
			break
		}
	}

	var out []domain.RawPosting
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if limit > 0 && i >= limit {
			return false
		}

		title := firstText(card, titleSelectors)
		if title == "" {
			return true
		}
		company := firstText(card, companySelectors)
		if company == "" {
			company = defaultCompany
		}
		loc := firstText(card, locationSelectors)
		if loc == "" {
			loc = fallbackLocation
		}

		link := searchURL
		if a := first(card, linkSelectors); a != nil {
			if href, ok := a.Attr("href"); ok && strings.TrimSpace(href) != "" {
				link = util.Absolute(siteRoot, href)
			}
		}

		desc := firstText(card, snippetSelectors)
		if desc == "" {
			desc = title + " at " + company
		}

		// Link-less cards all point at the search page, so the URL cannot
		// tell them apart.
		native := jobKey(card)
		if native == "" && link == searchURL {
			native = util.CardID(Name, title, company, loc, strconv.Itoa(i))
		}

		out = append(out, domain.RawPosting{
			Source:      Name,
			NativeID:    native,
			Title:       title,
			Company:     company,
			Location:    loc,
			Description: desc,
			URL:         link,
			Posted:      firstText(card, dateSelectors),
			Salary:      firstText(card, salarySelectors),
		})
		return true
	})
	return out, nil
}

// jobKey is Indeed's own posting id, when the card carries it.
func jobKey(card *goquery.Selection) string {
	if jk, ok := card.Find("a[data-jk]").First().Attr("data-jk"); ok {
		return strings.TrimSpace(jk)
	}
	return ""
}
