package booking

import (
	"time"

	"github.com/google/uuid"
)

// StatusLog is an append-only audit entry for one status change.
type StatusLog struct {
	BookingID      uuid.UUID
	PreviousStatus Status
	NewStatus      Status
	ChangedBy      string
	Reason         string
	StatusTime     time.Time
}

func NewStatusLog(bookingID uuid.UUID, prev, next Status, changedBy, reason string, at time.Time) StatusLog {
	return StatusLog{
		BookingID:      bookingID,
		PreviousStatus: prev,
		NewStatus:      next,
		ChangedBy:      changedBy,
		Reason:         reason,
		StatusTime:     at,
	}
}
