package bootstrap

import (
	"context"
	"log/slog"

	"smart-parking/internal/pkg/config"
	"smart-parking/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var MigrateModule = fx.Module("migrate",
	fx.Invoke(RunMigrations),
)

func RunMigrations(lc fx.Lifecycle, cfg config.Config, pool *pgxpool.Pool, logger *slog.Logger) {
	if !cfg.DB.AutoMigrate {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := migrations.Up(ctx, pool); err != nil {
				return err
			}
			logger.Info("database migrations applied")
			return nil
		},
	})
}
