package prices

import (
	"context"
	"log/slog"
	"time"

	"github.com/RosuMadalin/tracking-tradings/internal/telemetry"
)

// Scheduler runs fn once immediately and then on every tick. A failed run is
// logged and the loop continues; only cancellation stops it.
type Scheduler struct {
	interval time.Duration
	fn       func(context.Context) error
}

func NewScheduler(interval time.Duration, fn func(context.Context) error) *Scheduler {
	return &Scheduler{interval: interval, fn: fn}
}

func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	err := s.fn(ctx)
	telemetry.RefreshRun(err)
	if err != nil && ctx.Err() == nil {
		slog.Error("refresh failed", "error", err)
	}
}
