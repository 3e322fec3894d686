package shared

import (
	"context"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/domain/promo"
	"smart-parking/internal/domain/slot"
	"smart-parking/internal/domain/tariff"
	"smart-parking/internal/domain/vehicle"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes repositories bound to one transaction.
type Tx interface {
	Bookings() BookingRepository
	Slots() SlotRepository
	SlotAvailability() SlotAvailabilityRepository
	Vehicles() VehicleRepository
	Tariffs() tariff.PlanSource
	Promos() PromoRepository
	StatusLogs() StatusLogRepository
	Notifications() NotificationRepository
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, b *booking.Booking) error
	HasActiveOverlap(ctx context.Context, slotID uuid.UUID, interval booking.Interval) (bool, error)
	// ListStalePendingForUpdate locks pending bookings created before cutoff, skipping rows locked elsewhere.
	ListStalePendingForUpdate(ctx context.Context, cutoff time.Time, limit uint64) ([]*booking.Booking, error)
}

type SlotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	SetReserved(ctx context.Context, id uuid.UUID, reserved bool) error
}

type SlotAvailabilityRepository interface {
	Create(ctx context.Context, a slot.Availability) error
	DeleteByBooking(ctx context.Context, bookingID uuid.UUID) error
}

type VehicleRepository interface {
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*vehicle.Vehicle, error)
}

type PromoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*promo.PromoCode, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*promo.PromoCode, error)
	// IncrementUsage counts one use unless the usage limit is already reached,
	// in which case it returns a NotFound kind error.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

type StatusLogRepository interface {
	Append(ctx context.Context, log booking.StatusLog) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	ClaimDue(ctx context.Context, now time.Time, limit uint64) ([]NotificationJob, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt time.Time, giveUp bool) error
}
