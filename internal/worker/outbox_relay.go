package worker

import (
	"context"
	"log/slog"
	"time"

	"smart-parking/internal/pkg/clock"
	"smart-parking/internal/usecase/shared"
)

const (
	maxPublishAttempts = 5
	retryBase          = 30 * time.Second
)

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// OutboxRelay forwards queued notification jobs to the message broker.
// Delivery is at least once: a job is marked sent only after a successful publish.
type OutboxRelay struct {
	uow       shared.UnitOfWork
	publisher EventPublisher
	clock     clock.Clock
	interval  time.Duration
	batchSize uint64
	logger    *slog.Logger
}

func NewOutboxRelay(
	uow shared.UnitOfWork,
	publisher EventPublisher,
	clk clock.Clock,
	interval time.Duration,
	batchSize uint64,
	logger *slog.Logger,
) *OutboxRelay {
	return &OutboxRelay{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (r *OutboxRelay) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("outbox relay started", "interval", r.interval.String())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.Tick(ctx); err != nil {
				r.logger.Error("outbox relay tick failed", "error", err.Error())
			}
		}
	}
}

// Tick relays one batch and returns the number of jobs published.
func (r *OutboxRelay) Tick(ctx context.Context) (int, error) {
	sent := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := r.clock.Now()
		jobs, err := tx.Notifications().ClaimDue(ctx, now, r.batchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			if pubErr := r.publisher.Publish(ctx, job.Topic, job.Payload); pubErr != nil {
				attempts := job.Attempts + 1
				giveUp := attempts >= maxPublishAttempts
				r.logger.Warn("failed to publish notification job",
					"job_id", job.ID.String(),
					"kind", job.Kind,
					"attempts", attempts,
					"give_up", giveUp,
					"error", pubErr.Error())
				if err := tx.Notifications().MarkFailed(ctx, job.ID, pubErr.Error(), now.Add(retryDelay(attempts)), giveUp); err != nil {
					return err
				}
				continue
			}

			if err := tx.Notifications().MarkSent(ctx, job.ID); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sent, nil
}

func retryDelay(attempts int) time.Duration {
	return time.Duration(1<<min(attempts, 6)) * retryBase
}
