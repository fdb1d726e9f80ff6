package core

// scheduler.go keeps a long-running Service in step with its directory.
//
// Price lists are dropped into the directory by hand, so a server reloads
// them periodically. A failed run is logged and the previous list keeps
// serving; the scheduler itself never stops on errors.

import (
	"context"
	"log/slog"
	"time"
)

// StartReloadScheduler reloads the price list every interval until ctx is
// cancelled. It blocks, so run it in its own goroutine. The first reload
// happens one interval after the call.
func (s *Service) StartReloadScheduler(ctx context.Context, interval time.Duration) {
	logger := s.logger()
	if interval <= 0 {
		logger.Debug("reload scheduler disabled")
		return
	}
	logger.Info("reload scheduler started", "dir", s.dir, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("reload scheduler stopped")
			return
		case <-ticker.C:
			s.runReloadJob(ctx)
		}
	}
}

// runReloadJob performs one reload and logs the outcome.
func (s *Service) runReloadJob(ctx context.Context) {
	logger := s.logger()
	start := time.Now()

	list, err := s.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error("scheduled reload failed", "dir", s.dir, "error", err)
		return
	}

	logger.Info("scheduled reload completed",
		"load_id", list.ID,
		"rows", list.Len(),
		"excluded", list.Report.Excluded,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (s *Service) logger() *slog.Logger {
	if s.opts.Logger != nil {
		return s.opts.Logger
	}
	return slog.Default()
}
