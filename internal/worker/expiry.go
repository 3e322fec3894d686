package worker

import (
	"context"
	"log/slog"
	"time"
)

type pendingExpirer interface {
	ExpireStalePending(ctx context.Context) (int, error)
}

// Expiry periodically releases slots held by bookings whose payment window elapsed.
type Expiry struct {
	bookings pendingExpirer
	interval time.Duration
	logger   *slog.Logger
}

func NewExpiry(bookings pendingExpirer, interval time.Duration, logger *slog.Logger) *Expiry {
	return &Expiry{
		bookings: bookings,
		interval: interval,
		logger:   logger,
	}
}

func (e *Expiry) Start(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Info("expiry worker started", "interval", e.interval.String())

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("expiry worker stopped")
			return
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}

func (e *Expiry) Tick(ctx context.Context) {
	count, err := e.bookings.ExpireStalePending(ctx)
	if err != nil {
		e.logger.Error("failed to expire pending bookings", "error", err.Error())
		return
	}
	if count > 0 {
		e.logger.Debug("expiry tick finished", "expired", count)
	}
}
