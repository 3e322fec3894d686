package repository

import (
	"context"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/infra"
	"smart-parking/internal/infra/db"
	"smart-parking/internal/infra/repository/converter"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(db db.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query, args, err := psql.Insert("bookings").
		Columns(converter.BookingColumns...).
		Values(converter.BookingToValues(b)...).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build insert booking query", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query, args, err := psql.Select(converter.BookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build select booking query", err)
	}

	var row converter.BookingRow
	if err := r.db.QueryRow(ctx, query, args...).Scan(row.ScanTargets()...); err != nil {
		return nil, infra.WrapRepoErr("failed to select booking", err)
	}
	return converter.BookingToDomain(row)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	query, args, err := psql.Update("bookings").
		Set("booking_status", b.Status().String()).
		Set("cancellation_reason", b.CancellationReason()).
		Set("updated_at", b.UpdatedAt()).
		Where(squirrel.Eq{"id": b.ID()}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build update booking query", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NotFound("booking not found")
	}
	return nil
}

// HasActiveOverlap uses inclusive bounds: a booking ending exactly when the
// requested interval starts still overlaps.
func (r *BookingRepository) HasActiveOverlap(ctx context.Context, slotID uuid.UUID, iv booking.Interval) (bool, error) {
	sub, args, err := psql.Select("1").
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.Eq{"booking_status": booking.ActiveStatusStrings()}).
		Where(squirrel.LtOrEq{"scheduled_entry": iv.End()}).
		Where(squirrel.GtOrEq{"scheduled_exit": iv.Start()}).
		ToSql()
	if err != nil {
		return false, infra.WrapRepoErr("failed to build overlap query", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check overlapping bookings", err)
	}
	return exists, nil
}

func (r *BookingRepository) ListStalePendingForUpdate(ctx context.Context, cutoff time.Time, limit uint64) ([]*booking.Booking, error) {
	query, args, err := psql.Select(converter.BookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"booking_status": booking.StatusPending.String()}).
		Where(squirrel.Lt{"created_at": cutoff}).
		OrderBy("created_at").
		Limit(limit).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build stale pending query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stale pending bookings", err)
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		var row converter.BookingRow
		if err := rows.Scan(row.ScanTargets()...); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		b, err := converter.BookingToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return out, nil
}
