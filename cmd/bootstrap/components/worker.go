package components

import (
	"context"
	"log/slog"
	"sync"

	"smart-parking/internal/infra/broker"
	"smart-parking/internal/pkg/clock"
	"smart-parking/internal/pkg/config"
	"smart-parking/internal/usecase/commands"
	"smart-parking/internal/usecase/shared"
	"smart-parking/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Invoke(StartWorkers),
)

func StartWorkers(
	lc fx.Lifecycle,
	cfg config.Config,
	cmds commands.BookingCommands,
	uow shared.UnitOfWork,
	publisher *broker.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())

	expiry := worker.NewExpiry(cmds, cfg.Parking.ExpiryInterval, logger)

	var relay *worker.OutboxRelay
	if publisher != nil {
		relay = worker.NewOutboxRelay(uow, publisher, clk, cfg.AMQP.PollInterval, cfg.AMQP.BatchSize, logger)
	}

	var wg sync.WaitGroup
	run := func(start func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start(ctx)
		}()
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			run(expiry.Start)
			if relay != nil {
				run(relay.Start)
			}
			return nil
		},
		// Waits for in-flight ticks so they finish before the pool closes.
		OnStop: func(stopCtx context.Context) error {
			cancel()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
