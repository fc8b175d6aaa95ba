package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"easyapply-engine/internal/cache"
	"easyapply-engine/internal/cache/redis"
	"easyapply-engine/internal/config"
	"easyapply-engine/internal/rank"
	"easyapply-engine/internal/scrape"
	"easyapply-engine/internal/scrape/email"
	"easyapply-engine/internal/scrape/indeed"
	"easyapply-engine/internal/scrape/linkedin"
	"easyapply-engine/internal/scrape/remoteok"
	"easyapply-engine/internal/scrape/types"
	"easyapply-engine/internal/scrape/util"
	"easyapply-engine/internal/secrets"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// lockDataDir makes sure only one engine uses dataDir.
func lockDataDir(dataDir string) (func(), error) {
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data dir: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another engine is already using %s", dataDir)
	}
	return func() { _ = lock.Unlock() }, nil
}

func buildCache(ctx context.Context, cfg config.Config, log *zap.Logger) (cache.Cache, error) {
	opts := cache.DefaultOptions()
	opts.DefaultTTL = time.Duration(cfg.Cache.TTLSeconds) * time.Second
	opts.RedisAddr = cfg.Cache.RedisAddr
	opts.RedisPassword = cfg.Cache.RedisPassword
	opts.RedisDB = cfg.Cache.RedisDB

	switch cfg.Cache.Backend {
	case "redis":
		c := redis.New(opts)
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := c.Ping(pctx); err != nil {
			_ = c.Close()
			log.Warn("redis unreachable, using memory cache", zap.String("addr", opts.RedisAddr), zap.Error(err))
			return cache.NewMemory(opts), nil
		}
		return c, nil
	case "none":
		return cache.Nop{}, nil
	default:
		return cache.NewMemory(opts), nil
	}
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// buildSources turns the enabled sources into the ordered list the searcher
// walks: LinkedIn, Indeed, RemoteOK, then e-mail alerts.
func buildSources(cfg config.Config, cfgVal *atomic.Value, log *zap.Logger) []scrape.Source {
	ua := cfg.App.UserAgent
	var out []scrape.Source

	if s := cfg.Sources.LinkedIn; s.Enabled {
		out = append(out, scrape.Source{
			Fetcher:    linkedin.New(linkedin.Config{UserAgent: ua, Timeout: seconds(s.TimeoutSeconds)}, log),
			FetchLimit: s.MaxJobs,
			MaxJobs:    s.MaxJobs,
			Timeout:    seconds(s.TimeoutSeconds),
		})
	}
	if s := cfg.Sources.Indeed; s.Enabled {
		out = append(out, scrape.Source{
			Fetcher:    indeed.New(indeed.Config{UserAgent: ua, Timeout: seconds(s.TimeoutSeconds)}, log),
			FetchLimit: s.MaxJobs,
			MaxJobs:    s.MaxJobs,
			Timeout:    seconds(s.TimeoutSeconds),
		})
	}
	if s := cfg.Sources.RemoteOK; s.Enabled {
		// the feed is unfiltered, so cap after scoring only
		out = append(out, scrape.Source{
			Fetcher: remoteok.New(remoteok.Config{UserAgent: ua, Timeout: seconds(s.TimeoutSeconds)}, log),
			MaxJobs: s.MaxJobs,
			Timeout: seconds(s.TimeoutSeconds),
		})
	}
	if e := cfg.Email; e.Enabled {
		password := func() (string, error) {
			return secrets.IMAPPassword(cfgVal.Load().(config.Config))
		}
		out = append(out, scrape.Source{
			Fetcher: email.New(email.Config{
				Addr:      net.JoinHostPort(e.IMAPHost, strconv.Itoa(e.IMAPPort)),
				Username:  e.Username,
				Mailbox:   e.Mailbox,
				Subjects:  e.SearchSubjectAny,
				MaxEmails: e.MaxEmails,
				MarkSeen:  e.MarkSeen,
			}, password, log),
			FetchLimit: e.MaxJobs,
			MaxJobs:    e.MaxJobs,
			Timeout:    2 * time.Minute,
		})
	}
	return out
}

func minRelevance(cfg config.Config) map[string]float64 {
	return map[string]float64{
		linkedin.Name: cfg.Sources.LinkedIn.MinRelevance,
		indeed.Name:   cfg.Sources.Indeed.MinRelevance,
		remoteok.Name: cfg.Sources.RemoteOK.MinRelevance,
		email.Name:    0,
	}
}

// liveSearcher builds a searcher from the current config on every search so
// config edits apply to the next run. The cache outlives the searchers.
type liveSearcher struct {
	cfgVal *atomic.Value
	cache  cache.Cache
	log    *zap.Logger
}

func (l *liveSearcher) Search(ctx context.Context, q types.Query) (scrape.Result, error) {
	cfg := l.cfgVal.Load().(config.Config)
	minDelay := time.Duration(cfg.Search.MinDelayMillis) * time.Millisecond
	maxDelay := time.Duration(cfg.Search.MaxDelayMillis) * time.Millisecond

	s := &scrape.Searcher{
		Sources: buildSources(cfg, l.cfgVal, l.log),
		Assembler: &scrape.Assembler{
			Scorer:       rank.KeywordScorer{},
			Log:          l.log,
			MinRelevance: minRelevance(cfg),
			Workers:      cfg.Search.Workers,
		},
		Ranker:   rank.Ranker{Log: l.log},
		Cache:    l.cache,
		CacheTTL: time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		Pause:    func(ctx context.Context) error { return util.Pause(ctx, minDelay, maxDelay) },
		Log:      l.log,
	}
	return s.Search(ctx, q)
}
