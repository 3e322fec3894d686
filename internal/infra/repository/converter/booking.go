package converter

import (
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingColumns is the column order BookingRow.ScanTargets expects.
var BookingColumns = []string{
	"id", "user_id", "vehicle_id", "slot_id", "place_id", "promo_code_id",
	"booking_reference", "scheduled_entry", "scheduled_exit", "booking_status",
	"estimated_price", "final_price", "actual_entry", "actual_exit", "qr_code",
	"cancellation_reason", "created_at", "updated_at",
}

type BookingRow struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	VehicleID          uuid.UUID
	SlotID             uuid.UUID
	PlaceID            uuid.UUID
	PromoCodeID        pgtype.UUID
	Reference          string
	ScheduledEntry     time.Time
	ScheduledExit      time.Time
	Status             string
	EstimatedPrice     int64
	FinalPrice         pgtype.Int8
	ActualEntry        pgtype.Timestamptz
	ActualExit         pgtype.Timestamptz
	QRCode             pgtype.Text
	CancellationReason pgtype.Text
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (r *BookingRow) ScanTargets() []any {
	return []any{
		&r.ID, &r.UserID, &r.VehicleID, &r.SlotID, &r.PlaceID, &r.PromoCodeID,
		&r.Reference, &r.ScheduledEntry, &r.ScheduledExit, &r.Status,
		&r.EstimatedPrice, &r.FinalPrice, &r.ActualEntry, &r.ActualExit, &r.QRCode,
		&r.CancellationReason, &r.CreatedAt, &r.UpdatedAt,
	}
}

func BookingToDomain(r BookingRow) (*booking.Booking, error) {
	status, err := booking.ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	return booking.Reconstruct(booking.Snapshot{
		ID:                 r.ID,
		UserID:             r.UserID,
		VehicleID:          r.VehicleID,
		SlotID:             r.SlotID,
		PlaceID:            r.PlaceID,
		PromoCodeID:        pgconv.UUIDPtrFromPgtype(r.PromoCodeID),
		Reference:          r.Reference,
		ScheduledEntry:     r.ScheduledEntry,
		ScheduledExit:      r.ScheduledExit,
		Status:             status,
		EstimatedPrice:     r.EstimatedPrice,
		FinalPrice:         pgconv.Int64PtrFromPgtype(r.FinalPrice),
		ActualEntry:        pgconv.TimePtrFromPgtype(r.ActualEntry),
		ActualExit:         pgconv.TimePtrFromPgtype(r.ActualExit),
		QRCode:             pgconv.StringPtrFromPgtype(r.QRCode),
		CancellationReason: pgconv.StringPtrFromPgtype(r.CancellationReason),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}), nil
}

// BookingToValues follows BookingColumns.
func BookingToValues(b *booking.Booking) []any {
	return []any{
		b.ID(), b.UserID(), b.VehicleID(), b.SlotID(), b.PlaceID(), pgconv.UUIDPtrToPgtype(b.PromoCodeID()),
		b.Reference(), b.Interval().Start(), b.Interval().End(), b.Status().String(),
		b.EstimatedPrice(), pgconv.Int64PtrToPgtype(b.FinalPrice()),
		pgconv.TimePtrToPgtype(b.ActualEntry()), pgconv.TimePtrToPgtype(b.ActualExit()),
		pgconv.StringPtrToPgtype(b.QRCode()), pgconv.StringPtrToPgtype(b.CancellationReason()),
		b.CreatedAt(), b.UpdatedAt(),
	}
}
