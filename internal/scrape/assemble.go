package scrape

import (
	"context"
	"errors"
	"strings"
	"time"

	"easyapply-engine/internal/apperr"
	"easyapply-engine/internal/domain"
	"easyapply-engine/internal/extract"
	"easyapply-engine/internal/rank"
	"easyapply-engine/internal/scrape/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxBenefits     = 8
	unknownLocation = "Unknown"
)

// ErrBelowThreshold marks a well-formed posting that scored under its
// source's minimum relevance.
var ErrBelowThreshold = errors.New("relevance below source threshold")

// Assembler turns raw source records into scored JobPostings.
type Assembler struct {
	Scorer rank.Scorer
	Log    *zap.Logger
	Now    func() time.Time

	// MinRelevance is keyed by source name; missing sources use 0.
	MinRelevance map[string]float64
	Workers      int
}

func (a *Assembler) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

func (a *Assembler) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Build validates raw, runs every extractor and scores it against keywords.
// Records without a source, title or company fail with INVALID_INPUT.
func (a *Assembler) Build(raw domain.RawPosting, keywords string) (domain.JobPosting, error) {
	source := util.CleanText(raw.Source)
	title := util.CleanText(raw.Title)
	company := util.CleanText(raw.Company)
	switch {
	case source == "":
		return domain.JobPosting{}, apperr.InvalidInput("posting has no source", nil)
	case title == "":
		return domain.JobPosting{}, apperr.InvalidInput("posting has no title", nil)
	case company == "":
		return domain.JobPosting{}, apperr.InvalidInput("posting has no company", nil)
	}

	plain := extract.PlainText(raw.Description)
	text := title + " " + company + " " + plain

	location := util.NormalizeLocation(raw.Location)
	if location == "" {
		location = unknownLocation
	}
	link := strings.TrimSpace(raw.URL)

	techs := extract.Technologies(text)
	reqs := firstN(cleanAll(raw.Tags), extract.MaxRequirements)
	if len(reqs) == 0 {
		reqs = firstN(techs, extract.MaxRequirements)
	}

	salary := util.CleanText(raw.Salary)
	if salary == "" {
		salary = extract.SalaryRange(plain)
	}

	jobType := raw.JobType
	if jobType == "" {
		jobType = extract.JobType(plain)
	}

	benefits := firstN(cleanAll(raw.Benefits), maxBenefits)
	if len(benefits) == 0 {
		benefits = extract.Benefits(plain)
	}

	var score float64
	if a.Scorer != nil {
		score = a.Scorer.Score(text, keywords)
	}

	p := domain.JobPosting{
		ID:              util.PostingID(idPrefix(source), raw.NativeID, link),
		Title:           title,
		Company:         company,
		Location:        location,
		Description:     extract.Normalize(raw.Description),
		Requirements:    reqs,
		Technologies:    techs,
		SalaryRange:     salary,
		ExperienceLevel: extract.ExperienceLevel(title, plain),
		RemoteFriendly:  raw.Remote || extract.RemoteFriendly(location, plain),
		VisaSponsorship: extract.VisaSponsorship(plain),
		PostedDate:      extract.PostedDate(raw.Posted, a.now()),
		Source:          source,
		URL:             link,
		RelevanceScore:  score,
		JobType:         jobType,
		Benefits:        benefits,
	}

	if floor := a.MinRelevance[source]; score < floor {
		return p, ErrBelowThreshold
	}
	return p, nil
}

// BuildAll assembles raws in parallel and returns the kept postings in
// input order. Malformed records are logged and skipped; only context
// cancellation is reported as an error.
func (a *Assembler) BuildAll(ctx context.Context, raws []domain.RawPosting, keywords string) ([]domain.JobPosting, error) {
	type slot struct {
		p  domain.JobPosting
		ok bool
	}
	slots := make([]slot, len(raws))

	workers := a.Workers
	if workers <= 0 {
		workers = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range raws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := a.Build(raws[i], keywords)
			switch {
			case err == nil:
				slots[i] = slot{p: p, ok: true}
			case errors.Is(err, ErrBelowThreshold):
				a.logger().Debug("below threshold",
					zap.String("source", p.Source), zap.String("title", p.Title),
					zap.Float64("score", p.RelevanceScore))
			default:
				a.logger().Warn("skipping malformed posting",
					zap.String("source", raws[i].Source), zap.String("url", raws[i].URL), zap.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.JobPosting, 0, len(raws))
	for _, s := range slots {
		if s.ok {
			out = append(out, s.p)
		}
	}
	return out, nil
}

// idPrefix is the lowercased source name with anything but letters and
// digits removed ("RemoteOK" -> "remoteok").
func idPrefix(source string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(source) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "job"
	}
	return b.String()
}

func cleanAll(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x = util.CleanText(x); x != "" {
			out = append(out, x)
		}
	}
	return out
}

func firstN(xs []string, n int) []string {
	if len(xs) > n {
		xs = xs[:n]
	}
	return append(make([]string, 0, len(xs)), xs...)
}
