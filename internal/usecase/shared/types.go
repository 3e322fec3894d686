package shared

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationKindBookingCreated   = "booking.created"
	NotificationKindBookingCancelled = "booking.cancelled"
	NotificationKindBookingExpired   = "booking.expired"
)

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	RunAt    time.Time
	Attempts int
}

// BookingEvent is the outbox payload for booking lifecycle events.
type BookingEvent struct {
	BookingID      uuid.UUID `json:"bookingId"`
	Reference      string    `json:"bookingReference"`
	UserID         uuid.UUID `json:"userId"`
	SlotID         uuid.UUID `json:"slotId"`
	Status         string    `json:"status"`
	ScheduledEntry time.Time `json:"scheduledEntry"`
	ScheduledExit  time.Time `json:"scheduledExit"`
	EstimatedPrice int64     `json:"estimatedPrice"`
	Reason         string    `json:"reason,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}
