package core

// scheduler.go runs background maintenance for the report archive.
//
// Currently this is retention: reports older than the configured age are
// purged from the store on a fixed interval. Failures are logged and the
// next tick tries again.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig holds configuration for the retention scheduler.
type RetentionConfig struct {
	MaxAge   time.Duration // reports older than this are purged; 0 disables
	Interval time.Duration // how often to run (default: 1h)
}

// StartRetentionScheduler purges expired reports immediately, then every
// Interval until ctx is cancelled. It returns at once when MaxAge is zero.
func (s *Service) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	if cfg.MaxAge <= 0 {
		slog.Info("report retention disabled")
		return
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	slog.Info("retention scheduler started",
		"max_age", cfg.MaxAge.String(),
		"interval", cfg.Interval.String(),
	)

	s.runRetentionJob(ctx, cfg.MaxAge)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention scheduler stopped")
			return
		case <-ticker.C:
			s.runRetentionJob(ctx, cfg.MaxAge)
		}
	}
}

// runRetentionJob performs one purge and returns the number of reports removed.
func (s *Service) runRetentionJob(ctx context.Context, maxAge time.Duration) int64 {
	start := time.Now()
	cutoff := s.now().Add(-maxAge)

	purged, err := s.store.Purge(ctx, cutoff)
	if err != nil {
		slog.Error("report purge failed", "error", err)
		return 0
	}
	if purged > 0 {
		slog.Info("purged expired reports",
			"reports_purged", purged,
			"cutoff", cutoff.UTC().Format(time.RFC3339),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return purged
}
