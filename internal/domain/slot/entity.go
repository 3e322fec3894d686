package slot

import (
	"time"

	"smart-parking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound    = errs.NewKind("parking slot not found", errs.ErrKindNotFound)
	ErrSlotInactive    = errs.NewKind("parking slot is not active", errs.ErrKindInactive)
	ErrSlotUnavailable = errs.NewKind("parking slot is already reserved or occupied", errs.ErrKindConflict)
	ErrSlotConflict    = errs.NewKind("parking slot is already booked for the requested period", errs.ErrKindConflict)
)

// Slot is a single bookable parking space.
type Slot struct {
	ID                 uuid.UUID
	ZoneID             uuid.UUID
	PlaceID            uuid.UUID
	Number             string
	SlotType           string
	IsReserved         bool
	IsOccupied         bool
	IsActive           bool
	IsDisabledFriendly bool
	HasEVCharger       bool
}

// Availability marks a window during which a slot cannot be booked.
type Availability struct {
	SlotID         uuid.UUID
	BookingID      *uuid.UUID
	AvailableFrom  time.Time
	AvailableUntil time.Time
	IsBookable     bool
	StatusReason   string
}
