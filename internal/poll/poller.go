package poll

import (
	"context"
	"sync/atomic"
	"time"

	"easyapply-engine/internal/config"
	"easyapply-engine/internal/scheduler"
	"easyapply-engine/internal/scrape/types"

	"go.uber.org/zap"
)

// Poller runs the configured saved searches on their interval. The config
// is re-read every tick so edits apply without a restart.
type Poller struct {
	Service *Service
	CfgVal  *atomic.Value // config.Config
	Log     *zap.Logger

	// Tick is how often the interval is checked. Zero means one minute.
	Tick time.Duration

	lastRun time.Time
	now     func() time.Time
}

func (p *Poller) Run(ctx context.Context) {
	tick := p.Tick
	if tick <= 0 {
		tick = time.Minute
	}
	scheduler.Every(ctx, tick, "poll", p.Log, p.maybeRun)
}

func (p *Poller) maybeRun(ctx context.Context) error {
	cfg, ok := p.CfgVal.Load().(config.Config)
	if !ok || !cfg.Polling.Enabled || len(cfg.Polling.Searches) == 0 {
		return nil
	}
	now := time.Now
	if p.now != nil {
		now = p.now
	}

	every := time.Duration(cfg.Polling.IntervalMinutes) * time.Minute
	if !p.lastRun.IsZero() && now().Sub(p.lastRun) < every {
		return nil
	}
	p.lastRun = now()
	return p.Service.RunSaved(ctx, SavedQueries(cfg))
}

// SavedQueries turns the configured saved searches into queries, filling
// defaults from the search section.
func SavedQueries(cfg config.Config) []types.Query {
	out := make([]types.Query, 0, len(cfg.Polling.Searches))
	for _, s := range cfg.Polling.Searches {
		q := types.Query{Keywords: s.Keywords, Location: s.Location, MaxResults: s.MaxResults}
		if q.Location == "" {
			q.Location = cfg.Search.DefaultLocation
		}
		if q.MaxResults == 0 {
			q.MaxResults = cfg.Search.MaxResults
		}
		out = append(out, q)
	}
	return out
}
