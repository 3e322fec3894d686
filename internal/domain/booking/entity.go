package booking

import (
	"strings"
	"time"

	"smart-parking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrIntervalRequired     = errs.NewKind("scheduled entry and exit are required", errs.ErrKindValidation)
	ErrInvalidInterval      = errs.NewKind("scheduled exit must be after scheduled entry", errs.ErrKindValidation)
	ErrInvalidStatus        = errs.NewKind("invalid booking status", errs.ErrKindValidation)
	ErrNegativePrice        = errs.NewKind("price cannot be negative", errs.ErrKindValidation)
	ErrReasonTooLong        = errs.NewKind("cancellation reason must be at most 200 characters", errs.ErrKindValidation)
	ErrInvalidTransition    = errs.NewKind("invalid status transition", errs.ErrKindConflict)
	ErrBookingNotFound      = errs.NewKind("booking not found", errs.ErrKindNotFound)
	ErrDuplicateReservation = errs.NewKind("booking reference already exists", errs.ErrKindConflict)
)

const MaxReasonLength = 200

type Booking struct {
	id                 uuid.UUID
	userID             uuid.UUID
	vehicleID          uuid.UUID
	slotID             uuid.UUID
	placeID            uuid.UUID
	promoCodeID        *uuid.UUID
	reference          string
	interval           Interval
	status             Status
	estimatedPrice     int64
	finalPrice         *int64
	actualEntry        *time.Time
	actualExit         *time.Time
	qrCode             *string
	cancellationReason *string
	createdAt          time.Time
	updatedAt          time.Time
}

type NewParams struct {
	UserID         uuid.UUID
	VehicleID      uuid.UUID
	SlotID         uuid.UUID
	PlaceID        uuid.UUID
	PromoCodeID    *uuid.UUID
	Reference      string
	Interval       Interval
	EstimatedPrice int64
	Now            time.Time
}

// New creates a PENDING booking with a QR payload for its reference.
func New(p NewParams) (*Booking, error) {
	if p.EstimatedPrice < 0 {
		return nil, ErrNegativePrice
	}
	qr := QRPayload(p.Reference, p.Now)
	return &Booking{
		id:             uuid.New(),
		userID:         p.UserID,
		vehicleID:      p.VehicleID,
		slotID:         p.SlotID,
		placeID:        p.PlaceID,
		promoCodeID:    p.PromoCodeID,
		reference:      p.Reference,
		interval:       p.Interval,
		status:         StatusPending,
		estimatedPrice: p.EstimatedPrice,
		qrCode:         &qr,
		createdAt:      p.Now,
		updatedAt:      p.Now,
	}, nil
}

type Snapshot struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	VehicleID          uuid.UUID
	SlotID             uuid.UUID
	PlaceID            uuid.UUID
	PromoCodeID        *uuid.UUID
	Reference          string
	ScheduledEntry     time.Time
	ScheduledExit      time.Time
	Status             Status
	EstimatedPrice     int64
	FinalPrice         *int64
	ActualEntry        *time.Time
	ActualExit         *time.Time
	QRCode             *string
	CancellationReason *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Reconstruct rebuilds a booking from stored state without re-running creation rules.
func Reconstruct(s Snapshot) *Booking {
	return &Booking{
		id:                 s.ID,
		userID:             s.UserID,
		vehicleID:          s.VehicleID,
		slotID:             s.SlotID,
		placeID:            s.PlaceID,
		promoCodeID:        s.PromoCodeID,
		reference:          s.Reference,
		interval:           Interval{start: s.ScheduledEntry, end: s.ScheduledExit},
		status:             s.Status,
		estimatedPrice:     s.EstimatedPrice,
		finalPrice:         s.FinalPrice,
		actualEntry:        s.ActualEntry,
		actualExit:         s.ActualExit,
		qrCode:             s.QRCode,
		cancellationReason: s.CancellationReason,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
	}
}

func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		ID:                 b.id,
		UserID:             b.userID,
		VehicleID:          b.vehicleID,
		SlotID:             b.slotID,
		PlaceID:            b.placeID,
		PromoCodeID:        b.promoCodeID,
		Reference:          b.reference,
		ScheduledEntry:     b.interval.start,
		ScheduledExit:      b.interval.end,
		Status:             b.status,
		EstimatedPrice:     b.estimatedPrice,
		FinalPrice:         b.finalPrice,
		ActualEntry:        b.actualEntry,
		ActualExit:         b.actualExit,
		QRCode:             b.qrCode,
		CancellationReason: b.cancellationReason,
		CreatedAt:          b.createdAt,
		UpdatedAt:          b.updatedAt,
	}
}

// TransitionTo moves the booking to next and returns the log entry for the change.
func (b *Booking) TransitionTo(next Status, actor, reason string, at time.Time) (StatusLog, error) {
	if !CanTransition(b.status, next) {
		return StatusLog{}, errs.Wrapf(ErrInvalidTransition, "%s -> %s", b.status, next)
	}
	prev := b.status
	b.status = next
	b.updatedAt = at
	return NewStatusLog(b.id, prev, next, actor, reason, at), nil
}

func (b *Booking) Cancel(actor, reason string, at time.Time) (StatusLog, error) {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) > MaxReasonLength {
		return StatusLog{}, ErrReasonTooLong
	}
	log, err := b.TransitionTo(StatusCancelled, actor, reason, at)
	if err != nil {
		return StatusLog{}, err
	}
	if reason != "" {
		b.cancellationReason = &reason
	}
	return log, nil
}

func (b *Booking) Expire(actor string, at time.Time) (StatusLog, error) {
	return b.TransitionTo(StatusExpired, actor, "Payment window elapsed", at)
}

// CreationLog is the first audit entry of a booking.
func (b *Booking) CreationLog(actor string) StatusLog {
	return NewStatusLog(b.id, StatusNone, StatusPending, actor, "Booked by "+b.reference, b.createdAt)
}

// HoldsSlot reports whether the booking still keeps its slot reserved.
func (b *Booking) HoldsSlot() bool {
	for _, s := range ActiveStatuses {
		if b.status == s {
			return true
		}
	}
	return false
}

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) UserID() uuid.UUID           { return b.userID }
func (b *Booking) VehicleID() uuid.UUID        { return b.vehicleID }
func (b *Booking) SlotID() uuid.UUID           { return b.slotID }
func (b *Booking) PlaceID() uuid.UUID          { return b.placeID }
func (b *Booking) PromoCodeID() *uuid.UUID     { return b.promoCodeID }
func (b *Booking) Reference() string           { return b.reference }
func (b *Booking) Interval() Interval          { return b.interval }
func (b *Booking) Status() Status              { return b.status }
func (b *Booking) EstimatedPrice() int64       { return b.estimatedPrice }
func (b *Booking) FinalPrice() *int64          { return b.finalPrice }
func (b *Booking) ActualEntry() *time.Time     { return b.actualEntry }
func (b *Booking) ActualExit() *time.Time      { return b.actualExit }
func (b *Booking) QRCode() *string             { return b.qrCode }
func (b *Booking) CancellationReason() *string { return b.cancellationReason }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }
