package repository

import (
	"context"

	"smart-parking/internal/domain/slot"
	"smart-parking/internal/infra"
	"smart-parking/internal/infra/db"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type SlotRepository struct {
	db db.DBTX
}

func NewSlotRepository(db db.DBTX) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	return r.find(ctx, id, "")
}

// FindByIDForUpdate row-locks the slot until the transaction ends.
func (r *SlotRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	return r.find(ctx, id, "FOR UPDATE OF s")
}

func (r *SlotRepository) find(ctx context.Context, id uuid.UUID, lock string) (*slot.Slot, error) {
	q := psql.Select(
		"s.id", "s.zone_id", "z.place_id", "s.slot_number", "s.slot_type",
		"s.is_reserved", "s.is_occupied", "s.is_active", "s.is_disabled_friendly", "s.has_ev_charger",
	).
		From("parking_slots s").
		Join("parking_zones z ON z.id = s.zone_id").
		Where(squirrel.Eq{"s.id": id})
	if lock != "" {
		q = q.Suffix(lock)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build select slot query", err)
	}

	var s slot.Slot
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.ZoneID, &s.PlaceID, &s.Number, &s.SlotType,
		&s.IsReserved, &s.IsOccupied, &s.IsActive, &s.IsDisabledFriendly, &s.HasEVCharger,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to select slot", err)
	}
	return &s, nil
}

func (r *SlotRepository) SetReserved(ctx context.Context, id uuid.UUID, reserved bool) error {
	query, args, err := psql.Update("parking_slots").
		Set("is_reserved", reserved).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build update slot query", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update slot reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NotFound("slot not found")
	}
	return nil
}

type SlotAvailabilityRepository struct {
	db db.DBTX
}

func NewSlotAvailabilityRepository(db db.DBTX) *SlotAvailabilityRepository {
	return &SlotAvailabilityRepository{db: db}
}

func (r *SlotAvailabilityRepository) Create(ctx context.Context, a slot.Availability) error {
	query, args, err := psql.Insert("slot_availability").
		Columns("slot_id", "booking_id", "available_from", "available_until", "is_bookable", "status_reason").
		Values(a.SlotID, a.BookingID, a.AvailableFrom, a.AvailableUntil, a.IsBookable, a.StatusReason).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build insert availability query", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to insert slot availability", err)
	}
	return nil
}

func (r *SlotAvailabilityRepository) DeleteByBooking(ctx context.Context, bookingID uuid.UUID) error {
	query, args, err := psql.Delete("slot_availability").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build delete availability query", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to delete slot availability", err)
	}
	return nil
}
