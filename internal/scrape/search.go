package scrape

import (
	"context"
	"errors"
	"strings"
	"time"

	"easyapply-engine/internal/apperr"
	"easyapply-engine/internal/cache"
	"easyapply-engine/internal/domain"
	"easyapply-engine/internal/rank"
	"easyapply-engine/internal/scrape/types"

	"go.uber.org/zap"
)

const (
	DefaultMaxResults = 25
	MaxMaxResults     = 50
)

// Source is one enabled job board with its per-run limits.
type Source struct {
	Fetcher types.Fetcher

	// FetchLimit caps raw records requested from the board (0 = no cap);
	// MaxJobs caps the postings kept after assembly.
	FetchLimit int
	MaxJobs    int
	Timeout    time.Duration
}

type SourceReport struct {
	Source  string `json:"source"`
	Fetched int    `json:"fetched"`
	Kept    int    `json:"kept"`
	Error   string `json:"error,omitempty"`
}

type Result struct {
	Postings []domain.JobPosting `json:"jobs"`
	Sources  []SourceReport      `json:"sources"`
	Cached   bool                `json:"cached"`
}

// Searcher queries every source in turn and merges the results.
type Searcher struct {
	Sources   []Source
	Assembler *Assembler
	Ranker    rank.Ranker
	Cache     cache.Cache
	CacheTTL  time.Duration

	// Pause runs between two sources. nil means no pause.
	Pause func(ctx context.Context) error
	Log   *zap.Logger
}

func (s *Searcher) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// NormalizeQuery trims q and applies the result-count default and bounds.
func NormalizeQuery(q types.Query) (types.Query, error) {
	q.Keywords = strings.TrimSpace(q.Keywords)
	q.Location = strings.TrimSpace(q.Location)
	if q.Keywords == "" {
		return q, apperr.InvalidInput("keywords are required", nil)
	}
	switch {
	case q.MaxResults == 0:
		q.MaxResults = DefaultMaxResults
	case q.MaxResults < 1 || q.MaxResults > MaxMaxResults:
		return q, apperr.InvalidInput("max_results must be between 1 and 50", nil)
	}
	return q, nil
}

// Search runs q against all sources. A failing source is reported in the
// result and contributes nothing; only an invalid query or a cancelled
// context fail the whole search.
func (s *Searcher) Search(ctx context.Context, q types.Query) (Result, error) {
	q, err := NormalizeQuery(q)
	if err != nil {
		return Result{}, err
	}
	log := s.logger().With(zap.String("keywords", q.Keywords), zap.String("location", q.Location))

	key := cache.SearchKey(q.Keywords, q.Location, q.MaxResults)
	if s.Cache != nil {
		var cached Result
		err := s.Cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			log.Debug("search cache hit")
			cached.Cached = true
			return cached, nil
		case !errors.Is(err, cache.ErrNotFound):
			log.Warn("search cache read failed", zap.Error(err))
		}
	}

	var (
		all     []domain.JobPosting
		reports = make([]SourceReport, 0, len(s.Sources))
		okCount int
	)
	for i, src := range s.Sources {
		if i > 0 && s.Pause != nil {
			if err := s.Pause(ctx); err != nil {
				return Result{}, err
			}
		}

		kept, rep, err := s.runSource(ctx, src, q)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			log.Warn("source failed", zap.String("source", rep.Source), zap.Error(err))
			rep.Error = err.Error()
		} else {
			okCount++
			log.Info("source done", zap.String("source", rep.Source),
				zap.Int("fetched", rep.Fetched), zap.Int("kept", rep.Kept))
		}
		reports = append(reports, rep)
		all = append(all, kept...)
	}

	res := Result{
		Postings: s.Ranker.DedupeAndRank(all, q.MaxResults),
		Sources:  reports,
	}
	log.Info("search done", zap.Int("candidates", len(all)), zap.Int("returned", len(res.Postings)))

	if s.Cache != nil && okCount > 0 {
		if err := s.Cache.Set(ctx, key, res, s.CacheTTL); err != nil {
			log.Warn("search cache write failed", zap.Error(err))
		}
	}
	return res, nil
}

func (s *Searcher) runSource(ctx context.Context, src Source, q types.Query) ([]domain.JobPosting, SourceReport, error) {
	rep := SourceReport{Source: src.Fetcher.Name()}

	fctx := ctx
	if src.Timeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, src.Timeout)
		defer cancel()
	}

	raws, err := src.Fetcher.Fetch(fctx, q, src.FetchLimit)
	if err != nil {
		return nil, rep, err
	}
	rep.Fetched = len(raws)

	kept, err := s.Assembler.BuildAll(ctx, raws, q.Keywords)
	if err != nil {
		return nil, rep, err
	}
	if src.MaxJobs > 0 && len(kept) > src.MaxJobs {
		kept = kept[:src.MaxJobs]
	}
	rep.Kept = len(kept)
	return kept, rep, nil
}
