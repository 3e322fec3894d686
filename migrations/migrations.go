package migrations

import (
	"context"
	"embed"

	"smart-parking/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// Up applies all pending migrations through a database/sql handle borrowed from pool.
func Up(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errs.Wrap(err, "goose dialect")
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errs.Wrap(err, "goose up")
	}
	return nil
}
