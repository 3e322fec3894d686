package queries

import (
	"time"

	"github.com/google/uuid"
)

// BookingView is the detail read model of a booking
type BookingView struct {
	ID                 uuid.UUID  `json:"id"`
	Reference          string     `json:"bookingReference"`
	UserID             uuid.UUID  `json:"userId"`
	VehicleID          uuid.UUID  `json:"vehicleId"`
	LicensePlate       string     `json:"licensePlate"`
	VehicleType        string     `json:"vehicleType"`
	SlotID             uuid.UUID  `json:"slotId"`
	SlotNumber         string     `json:"slotNumber"`
	PlaceID            uuid.UUID  `json:"placeId"`
	PlaceName          string     `json:"placeName"`
	PlaceAddress       string     `json:"placeAddress"`
	PromoCodeID        *uuid.UUID `json:"promoCodeId,omitempty"`
	ScheduledEntry     time.Time  `json:"scheduledEntry"`
	ScheduledExit      time.Time  `json:"scheduledExit"`
	ActualEntry        *time.Time `json:"actualEntry,omitempty"`
	ActualExit         *time.Time `json:"actualExit,omitempty"`
	Status             string     `json:"status"`
	EstimatedPrice     int64      `json:"estimatedPrice"`
	FinalPrice         *int64     `json:"finalPrice,omitempty"`
	QRCode             *string    `json:"qrCode,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// BookingListItem is the row shape of the booking list
type BookingListItem struct {
	ID             uuid.UUID `json:"id"`
	Reference      string    `json:"bookingReference"`
	SlotNumber     string    `json:"slotNumber"`
	PlaceName      string    `json:"placeName"`
	LicensePlate   string    `json:"licensePlate"`
	Status         string    `json:"status"`
	ScheduledEntry time.Time `json:"scheduledEntry"`
	ScheduledExit  time.Time `json:"scheduledExit"`
	EstimatedPrice int64     `json:"estimatedPrice"`
	CreatedAt      time.Time `json:"createdAt"`
}

// QuoteView is the price preview for a prospective booking
type QuoteView struct {
	EstimatedPrice int64      `json:"estimatedPrice"`
	BasePrice      int64      `json:"basePrice"`
	Discount       int64      `json:"discount"`
	DurationHours  int64      `json:"durationHours"`
	PlanID         uuid.UUID  `json:"planId"`
	RateID         uuid.UUID  `json:"rateId"`
	DayCategory    string     `json:"dayCategory"`
	MatchedRule    string     `json:"matchedRule"`
	PromoCodeID    *uuid.UUID `json:"promoCodeId,omitempty"`
}

// BookingFilter narrows a user's booking list.
type BookingFilter struct {
	UserID uuid.UUID
	Status *string
	Limit  int
	Offset int
	After  *Keyset
}

type Keyset struct {
	CreatedAt time.Time
	ID        uuid.UUID
}
