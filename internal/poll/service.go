// Package poll runs searches in the background, persists what they find and
// reports progress through the scrape status and the event hub.
package poll

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"easyapply-engine/internal/apperr"
	"easyapply-engine/internal/events"
	"easyapply-engine/internal/scrape"
	"easyapply-engine/internal/scrape/types"
	"easyapply-engine/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Searcher is the part of scrape.Searcher the service needs.
type Searcher interface {
	Search(ctx context.Context, q types.Query) (scrape.Result, error)
}

type Service struct {
	Searcher Searcher
	DB       *sql.DB
	Hub      *events.Hub
	Log      *zap.Logger

	// RunTimeout bounds one background run. Zero means 10 minutes.
	RunTimeout time.Duration

	now     func() time.Time
	status  atomic.Value // types.ScrapeStatus
	running atomic.Bool
	wg      sync.WaitGroup
}

func NewService(s Searcher, db *sql.DB, hub *events.Hub, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	svc := &Service{Searcher: s, DB: db, Hub: hub, Log: log, now: time.Now}
	svc.status.Store(types.ScrapeStatus{})
	return svc
}

func (s *Service) Status() types.ScrapeStatus {
	return s.status.Load().(types.ScrapeStatus)
}

// Outcome is a finished search plus what it changed in the store.
type Outcome struct {
	RunID string `json:"run_id"`
	scrape.Result
	Added int `json:"added"`
}

// Search runs q, stores the postings and records the run. Store failures are
// logged and do not hide the search results.
func (s *Service) Search(ctx context.Context, reqID string, q types.Query) (Outcome, error) {
	return s.search(ctx, reqID, uuid.NewString(), q)
}

// search is Search under a caller-chosen run id, which then names the
// events and the search_runs row.
func (s *Service) search(ctx context.Context, reqID, runID string, q types.Query) (Outcome, error) {
	started := s.now()
	log := s.Log.With(zap.String("run_id", runID), zap.String("keywords", q.Keywords))

	s.Hub.Emit(reqID, events.TypeSearchStarted, map[string]any{"run_id": runID, "keywords": q.Keywords})

	res, err := s.Searcher.Search(ctx, q)
	out := Outcome{RunID: runID, Result: res}
	if err == nil && s.DB != nil {
		out.Added, err = store.UpsertPostings(ctx, s.DB, res.Postings, s.now())
		if err != nil {
			log.Error("persist postings failed", zap.Error(err))
			err = nil
		}
	}

	run := store.SearchRun{
		ID:          runID,
		Keywords:    q.Keywords,
		Location:    q.Location,
		StartedAt:   started,
		FinishedAt:  s.now(),
		ResultCount: len(res.Postings),
	}
	if err != nil {
		run.Error = err.Error()
	}
	if s.DB != nil && !apperr.Is(err, apperr.TypeInvalidInput) {
		if rerr := store.RecordSearchRun(context.WithoutCancel(ctx), s.DB, run); rerr != nil {
			log.Warn("record search run failed", zap.Error(rerr))
		}
	}

	s.Hub.Emit(reqID, events.TypeSearchFinished, map[string]any{
		"run_id": runID, "results": len(res.Postings), "added": out.Added, "error": run.Error,
	})
	if out.Added > 0 {
		s.Hub.Emit(reqID, events.TypeJobCreated, map[string]any{"count": out.Added})
	}
	return out, err
}

// Start runs q in the background. Only one background run may be active.
func (s *Service) Start(reqID string, q types.Query) (string, error) {
	q, err := scrape.NormalizeQuery(q)
	if err != nil {
		return "", err
	}
	if !s.running.CompareAndSwap(false, true) {
		return "", apperr.Conflict("a search is already running", nil)
	}

	runID := uuid.NewString()
	prev := s.Status()
	s.status.Store(types.ScrapeStatus{
		RunID:     runID,
		LastRunAt: s.now().Format(time.RFC3339),
		LastOkAt:  prev.LastOkAt,
		Running:   true,
	})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)

		timeout := s.RunTimeout
		if timeout <= 0 {
			timeout = 10 * time.Minute
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		out, err := s.search(ctx, reqID, runID, q)
		s.finish(runID, out.Added, err)
	}()
	return runID, nil
}

// RunSaved runs each saved search in turn unless a background run is active.
// The i-th search is recorded as "<run id>-<i>" under the run id the status
// reports.
func (s *Service) RunSaved(ctx context.Context, searches []types.Query) error {
	if len(searches) == 0 {
		return nil
	}
	if !s.running.CompareAndSwap(false, true) {
		s.Log.Info("poll skipped, search already running")
		return nil
	}
	defer s.running.Store(false)

	runID := uuid.NewString()
	prev := s.Status()
	s.status.Store(types.ScrapeStatus{
		RunID:     runID,
		LastRunAt: s.now().Format(time.RFC3339),
		LastOkAt:  prev.LastOkAt,
		Running:   true,
	})

	var (
		added   int
		lastErr error
	)
	for i, q := range searches {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
		out, err := s.search(ctx, "", fmt.Sprintf("%s-%d", runID, i+1), q)
		added += out.Added
		if err != nil {
			s.Log.Warn("saved search failed", zap.String("keywords", q.Keywords), zap.Error(err))
			lastErr = err
		}
	}
	s.finish(runID, added, lastErr)
	return lastErr
}

func (s *Service) finish(runID string, added int, err error) {
	now := s.now().Format(time.RFC3339)
	next := s.Status()
	next.RunID = runID
	next.Running = false
	next.LastAdded = added
	if err != nil {
		next.LastError = err.Error()
		s.Log.Warn("search run failed", zap.String("run_id", runID), zap.Error(err))
	} else {
		next.LastError = ""
		next.LastOkAt = now
		s.Log.Info("search run ok", zap.String("run_id", runID), zap.Int("added", added))
	}
	s.status.Store(next)
}

// Wait blocks until background runs have finished.
func (s *Service) Wait() { s.wg.Wait() }
