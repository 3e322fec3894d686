package request

import (
	"strings"
	"time"

	"smart-parking/internal/domain/booking"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	VehicleID      uuid.UUID  `json:"vehicleId" binding:"required"`
	SlotID         uuid.UUID  `json:"slotId" binding:"required"`
	PlaceID        uuid.UUID  `json:"placeId" binding:"required"`
	ScheduledEntry time.Time  `json:"scheduledEntry" binding:"required"`
	ScheduledExit  time.Time  `json:"scheduledExit" binding:"required"`
	PromoCodeID    *uuid.UUID `json:"promoCodeId,omitempty"`
}

func (r CreateBookingRequest) Interval() (booking.Interval, error) {
	return booking.NewInterval(r.ScheduledEntry, r.ScheduledExit)
}

// GetPromoCodeID treats the nil UUID as no promo.
func (r CreateBookingRequest) GetPromoCodeID() *uuid.UUID {
	if r.PromoCodeID == nil || *r.PromoCodeID == uuid.Nil {
		return nil
	}
	return r.PromoCodeID
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (r CancelBookingRequest) TrimmedReason() string {
	return strings.TrimSpace(r.Reason)
}

type ListBookingsRequest struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
	After  string `form:"after"`
}
