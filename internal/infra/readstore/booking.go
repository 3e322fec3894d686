package readstore

import (
	"context"

	"smart-parking/internal/infra"
	"smart-parking/internal/infra/db"
	"smart-parking/internal/pkg/pgconv"
	"smart-parking/internal/usecase/queries"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

func bookingJoins(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	return b.From("bookings b").
		Join("parking_slots s ON s.id = b.slot_id").
		Join("places p ON p.id = b.place_id").
		Join("vehicles v ON v.id = b.vehicle_id")
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	query, args, err := bookingJoins(psql.Select(
		"b.id", "b.booking_reference", "b.user_id",
		"b.vehicle_id", "v.license_plate", "v.vehicle_type",
		"b.slot_id", "s.slot_number",
		"b.place_id", "p.name", "p.address",
		"b.promo_code_id", "b.scheduled_entry", "b.scheduled_exit",
		"b.actual_entry", "b.actual_exit", "b.booking_status",
		"b.estimated_price", "b.final_price", "b.qr_code", "b.cancellation_reason",
		"b.created_at", "b.updated_at",
	)).
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking view query", err)
	}

	var (
		v                      queries.BookingView
		promoID                pgtype.UUID
		actualEntry, actualExt pgtype.Timestamptz
		finalPrice             pgtype.Int8
		qrCode, reason         pgtype.Text
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&v.ID, &v.Reference, &v.UserID,
		&v.VehicleID, &v.LicensePlate, &v.VehicleType,
		&v.SlotID, &v.SlotNumber,
		&v.PlaceID, &v.PlaceName, &v.PlaceAddress,
		&promoID, &v.ScheduledEntry, &v.ScheduledExit,
		&actualEntry, &actualExt, &v.Status,
		&v.EstimatedPrice, &finalPrice, &qrCode, &reason,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	v.PromoCodeID = pgconv.UUIDPtrFromPgtype(promoID)
	v.ActualEntry = pgconv.TimePtrFromPgtype(actualEntry)
	v.ActualExit = pgconv.TimePtrFromPgtype(actualExt)
	v.FinalPrice = pgconv.Int64PtrFromPgtype(finalPrice)
	v.QRCode = pgconv.StringPtrFromPgtype(qrCode)
	v.CancellationReason = pgconv.StringPtrFromPgtype(reason)
	return &v, nil
}

// List returns the user's bookings newest first. A keyset in the filter takes
// precedence over the offset.
func (r *BookingReadStore) List(ctx context.Context, filter queries.BookingFilter) ([]*queries.BookingListItem, error) {
	builder := bookingJoins(psql.Select(
		"b.id", "b.booking_reference", "s.slot_number", "p.name", "v.license_plate",
		"b.booking_status", "b.scheduled_entry", "b.scheduled_exit", "b.estimated_price", "b.created_at",
	)).
		Where(squirrel.Eq{"b.user_id": filter.UserID}).
		OrderBy("b.created_at DESC", "b.id DESC")

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"b.booking_status": *filter.Status})
	}
	if filter.After != nil {
		builder = builder.Where("(b.created_at, b.id) < (?, ?)", filter.After.CreatedAt, filter.After.ID)
	} else if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	items := make([]*queries.BookingListItem, 0, filter.Limit)
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID, &item.Reference, &item.SlotNumber, &item.PlaceName, &item.LicensePlate,
			&item.Status, &item.ScheduledEntry, &item.ScheduledExit, &item.EstimatedPrice, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list row", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking list", err)
	}
	return items, nil
}
