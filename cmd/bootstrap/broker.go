package bootstrap

import (
	"context"
	"log/slog"

	"smart-parking/internal/infra/broker"
	"smart-parking/internal/pkg/config"

	"go.uber.org/fx"
)

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewPublisher,
	),
)

// NewPublisher returns nil when AMQP_URL is empty; events then stay queued in the outbox.
func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *broker.Publisher {
	if !cfg.AMQP.Enabled() {
		logger.Info("event relay disabled")
		return nil
	}

	p := broker.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return p.Close()
		},
	})
	return p
}
