package core

// scheduler.go runs background maintenance for the service.
//
// Currently the only job is sweeping expired comparison results out of the
// in-memory store. The job is context-aware for graceful shutdown and never
// fails the application.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often expired results are removed.
const DefaultSweepInterval = time.Minute

// StartResultSweeper removes expired results every interval until ctx is
// cancelled. It blocks; run it on its own goroutine.
func (s *Service) StartResultSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	slog.Info("result sweeper started", "interval", interval.String(), "ttl", s.results.ttl.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("result sweeper stopped")
			return
		case <-ticker.C:
			s.sweepResults()
		}
	}
}

func (s *Service) sweepResults() {
	start := time.Now()
	removed := s.results.Sweep()
	if removed > 0 {
		slog.Debug("expired results removed",
			"removed", removed,
			"remaining", s.results.Len(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
