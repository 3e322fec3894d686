package repository

import (
	"context"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/infra"
	"smart-parking/internal/infra/db"
)

type StatusLogRepository struct {
	db db.DBTX
}

func NewStatusLogRepository(db db.DBTX) *StatusLogRepository {
	return &StatusLogRepository{db: db}
}

func (r *StatusLogRepository) Append(ctx context.Context, l booking.StatusLog) error {
	query, args, err := psql.Insert("booking_status_logs").
		Columns("booking_id", "previous_status", "new_status", "changed_by", "reason", "status_time").
		Values(l.BookingID, l.PreviousStatus.String(), l.NewStatus.String(), l.ChangedBy, l.Reason, l.StatusTime).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build insert status log query", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to insert booking status log", err)
	}
	return nil
}
