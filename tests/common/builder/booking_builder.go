//go:build unit || e2e

package builder

import (
	"time"

	"smart-parking/internal/domain/booking"
	reqdto "smart-parking/internal/handler/dto/request"
	"smart-parking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	UserID         uuid.UUID
	VehicleID      uuid.UUID
	SlotID         uuid.UUID
	PlaceID        uuid.UUID
	PromoCodeID    *uuid.UUID
	Reference      string
	ScheduledEntry time.Time
	ScheduledExit  time.Time
	Status         booking.Status
	EstimatedPrice int64
	CreatedAt      time.Time
}

func NewBookingBuilder() *BookingBuilder {
	entry := time.Date(2030, 3, 4, 10, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		UserID:         uuid.New(),
		VehicleID:      uuid.New(),
		SlotID:         uuid.New(),
		PlaceID:        uuid.New(),
		Reference:      "SPB-1A2B3C4D",
		ScheduledEntry: entry,
		ScheduledExit:  entry.Add(2*time.Hour + 30*time.Minute),
		Status:         booking.StatusPending,
		EstimatedPrice: 9000,
		CreatedAt:      entry.Add(-24 * time.Hour),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() *booking.Booking {
	return booking.Reconstruct(booking.Snapshot{
		ID:             uuid.New(),
		UserID:         b.UserID,
		VehicleID:      b.VehicleID,
		SlotID:         b.SlotID,
		PlaceID:        b.PlaceID,
		PromoCodeID:    b.PromoCodeID,
		Reference:      b.Reference,
		ScheduledEntry: b.ScheduledEntry,
		ScheduledExit:  b.ScheduledExit,
		Status:         b.Status,
		EstimatedPrice: b.EstimatedPrice,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.CreatedAt,
	})
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		VehicleID:      b.VehicleID,
		SlotID:         b.SlotID,
		PlaceID:        b.PlaceID,
		ScheduledEntry: b.ScheduledEntry,
		ScheduledExit:  b.ScheduledExit,
		PromoCodeID:    b.PromoCodeID,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:             uuid.New(),
		Reference:      b.Reference,
		UserID:         b.UserID,
		VehicleID:      b.VehicleID,
		LicensePlate:   "B 1234 XYZ",
		VehicleType:    "car",
		SlotID:         b.SlotID,
		SlotNumber:     "A-01",
		PlaceID:        b.PlaceID,
		PlaceName:      "Central Mall",
		PlaceAddress:   "Jl. Sudirman 1",
		PromoCodeID:    b.PromoCodeID,
		ScheduledEntry: b.ScheduledEntry,
		ScheduledExit:  b.ScheduledExit,
		Status:         b.Status.String(),
		EstimatedPrice: b.EstimatedPrice,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	v := b.BuildView()
	return &queries.BookingListItem{
		ID:             v.ID,
		Reference:      v.Reference,
		SlotNumber:     v.SlotNumber,
		PlaceName:      v.PlaceName,
		LicensePlate:   v.LicensePlate,
		Status:         v.Status,
		ScheduledEntry: v.ScheduledEntry,
		ScheduledExit:  v.ScheduledExit,
		EstimatedPrice: v.EstimatedPrice,
		CreatedAt:      v.CreatedAt,
	}
}
