package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on each tick until ctx is done.
// Runs never overlap; a slow run delays the next one.
func Every(ctx context.Context, interval time.Duration, name string, log *zap.Logger, task Task) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("task", name))

	run := func() {
		if err := task(ctx); err != nil && ctx.Err() == nil {
			log.Warn("task failed", zap.Error(err))
		}
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
