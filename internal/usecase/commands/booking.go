package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"smart-parking/internal/domain/auth"
	"smart-parking/internal/domain/booking"
	"smart-parking/internal/domain/pricing"
	"smart-parking/internal/domain/promo"
	"smart-parking/internal/domain/slot"
	"smart-parking/internal/domain/vehicle"
	reqdto "smart-parking/internal/handler/dto/request"
	"smart-parking/internal/infra"
	"smart-parking/internal/pkg/clock"
	"smart-parking/internal/pkg/errs"
	"smart-parking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	expiryActor      = "system:expiry"
	availabilityNote = "Booked by "
)

type AdmitBookingResult struct {
	ID        uuid.UUID `json:"id"`
	Reference string    `json:"bookingReference"`
}

type BookingCommands interface {
	AdmitBooking(ctx context.Context, req reqdto.CreateBookingRequest, principal auth.Principal) (*AdmitBookingResult, error)
	CancelBooking(ctx context.Context, id uuid.UUID, req reqdto.CancelBookingRequest, principal auth.Principal) error
	// ExpireStalePending returns how many pending bookings were expired.
	ExpireStalePending(ctx context.Context) (int, error)
}

type BookingSettings struct {
	Location    *time.Location
	PendingTTL  time.Duration
	ExpiryBatch uint64
}

type bookingCommandsImpl struct {
	uow          shared.UnitOfWork
	clock        clock.Clock
	newReference booking.ReferenceGenerator
	settings     BookingSettings
	logger       *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	clk clock.Clock,
	newReference booking.ReferenceGenerator,
	settings BookingSettings,
	logger *slog.Logger,
) BookingCommands {
	if newReference == nil {
		newReference = booking.NewReference
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &bookingCommandsImpl{
		uow:          uow,
		clock:        clk,
		newReference: newReference,
		settings:     settings,
		logger:       logger,
	}
}

func (c *bookingCommandsImpl) AdmitBooking(
	ctx context.Context,
	req reqdto.CreateBookingRequest,
	principal auth.Principal,
) (*AdmitBookingResult, error) {
	interval, err := req.Interval()
	if err != nil {
		return nil, err
	}

	var admitted *booking.Booking
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := c.admit(ctx, tx, req, interval, principal)
		if err != nil {
			return err
		}
		admitted = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("booking admitted",
		"booking_id", admitted.ID().String(),
		"reference", admitted.Reference(),
		"slot_id", admitted.SlotID().String(),
		"estimated_price", admitted.EstimatedPrice())

	return &AdmitBookingResult{ID: admitted.ID(), Reference: admitted.Reference()}, nil
}

func (c *bookingCommandsImpl) admit(
	ctx context.Context,
	tx shared.Tx,
	req reqdto.CreateBookingRequest,
	interval booking.Interval,
	principal auth.Principal,
) (*booking.Booking, error) {
	// The locking finder serializes concurrent admissions for the same slot.
	checker := slot.NewChecker(slot.FinderFunc(tx.Slots().FindByIDForUpdate), tx.Bookings())
	parkingSlot, err := checker.CheckAvailability(ctx, req.SlotID, interval)
	if err != nil {
		return nil, err
	}

	v, err := tx.Vehicles().FindOwned(ctx, req.VehicleID, principal.UserID())
	if err != nil {
		if errs.Is(err, errs.ErrKindNotFound) {
			return nil, vehicle.ErrVehicleNotFound
		}
		return nil, err
	}

	if parkingSlot.PlaceID != req.PlaceID {
		return nil, errs.Wrap(slot.ErrSlotNotFound, "slot does not belong to the requested place")
	}

	// Locking the promo row keeps concurrent admissions within its usage limit.
	promos := pricing.PromoFinderFunc(tx.Promos().FindByIDForUpdate)
	fee, err := shared.PriceBooking(ctx, tx, promos, c.clock, c.settings.Location, parkingSlot, v, interval, req.GetPromoCodeID())
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	b, err := booking.New(booking.NewParams{
		UserID:         principal.UserID(),
		VehicleID:      v.ID,
		SlotID:         parkingSlot.ID,
		PlaceID:        parkingSlot.PlaceID,
		PromoCodeID:    fee.PromoCodeID(),
		Reference:      c.newReference(),
		Interval:       interval,
		EstimatedPrice: fee.Total,
		Now:            now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Bookings().Create(ctx, b); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, booking.ErrDuplicateReservation
		}
		return nil, err
	}

	if err := tx.Slots().SetReserved(ctx, parkingSlot.ID, true); err != nil {
		return nil, err
	}

	bookingID := b.ID()
	err = tx.SlotAvailability().Create(ctx, slot.Availability{
		SlotID:         parkingSlot.ID,
		BookingID:      &bookingID,
		AvailableFrom:  interval.Start(),
		AvailableUntil: interval.End(),
		IsBookable:     false,
		StatusReason:   availabilityNote + b.Reference(),
	})
	if err != nil {
		return nil, err
	}

	if fee.Promo != nil {
		if err := tx.Promos().IncrementUsage(ctx, fee.Promo.ID); err != nil {
			if errs.Is(err, errs.ErrKindNotFound) {
				return nil, promo.ErrPromoExhausted
			}
			return nil, err
		}
	}

	if err := tx.StatusLogs().Append(ctx, b.CreationLog(principal.Actor())); err != nil {
		return nil, err
	}

	if err := enqueueBookingEvent(ctx, tx, shared.NotificationKindBookingCreated, b, "", now); err != nil {
		return nil, err
	}

	return b, nil
}

func (c *bookingCommandsImpl) CancelBooking(
	ctx context.Context,
	id uuid.UUID,
	req reqdto.CancelBookingRequest,
	principal auth.Principal,
) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, id)
		if err != nil {
			if errs.Is(err, errs.ErrKindNotFound) {
				return booking.ErrBookingNotFound
			}
			return err
		}
		if !principal.CanAccess(b.UserID()) {
			return booking.ErrBookingNotFound
		}

		now := c.clock.Now()
		held := b.HoldsSlot()
		log, err := b.Cancel(principal.Actor(), req.TrimmedReason(), now)
		if err != nil {
			return err
		}

		return c.persistRelease(ctx, tx, b, log, held, shared.NotificationKindBookingCancelled, now)
	})
	if err != nil {
		return err
	}

	c.logger.Info("booking cancelled", "booking_id", id.String(), "actor", principal.Actor())
	return nil
}

func (c *bookingCommandsImpl) ExpireStalePending(ctx context.Context) (int, error) {
	now := c.clock.Now()
	cutoff := now.Add(-c.settings.PendingTTL)

	expired := 0
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		expired = 0
		stale, err := tx.Bookings().ListStalePendingForUpdate(ctx, cutoff, c.settings.ExpiryBatch)
		if err != nil {
			return err
		}

		for _, b := range stale {
			held := b.HoldsSlot()
			log, err := b.Expire(expiryActor, now)
			if err != nil {
				return err
			}
			if err := c.persistRelease(ctx, tx, b, log, held, shared.NotificationKindBookingExpired, now); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		c.logger.Info("expired pending bookings", "count", expired, "cutoff", cutoff)
	}
	return expired, nil
}

// persistRelease stores a status change that ends the booking's hold on its slot.
func (c *bookingCommandsImpl) persistRelease(
	ctx context.Context,
	tx shared.Tx,
	b *booking.Booking,
	log booking.StatusLog,
	held bool,
	kind string,
	now time.Time,
) error {
	if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
		return err
	}

	if held {
		if err := tx.Slots().SetReserved(ctx, b.SlotID(), false); err != nil {
			return err
		}
		if err := tx.SlotAvailability().DeleteByBooking(ctx, b.ID()); err != nil {
			return err
		}
	}

	if err := tx.StatusLogs().Append(ctx, log); err != nil {
		return err
	}

	return enqueueBookingEvent(ctx, tx, kind, b, log.Reason, now)
}

func enqueueBookingEvent(ctx context.Context, tx shared.Tx, kind string, b *booking.Booking, reason string, now time.Time) error {
	payload, err := json.Marshal(shared.BookingEvent{
		BookingID:      b.ID(),
		Reference:      b.Reference(),
		UserID:         b.UserID(),
		SlotID:         b.SlotID(),
		Status:         b.Status().String(),
		ScheduledEntry: b.Interval().Start(),
		ScheduledExit:  b.Interval().End(),
		EstimatedPrice: b.EstimatedPrice(),
		Reason:         reason,
		OccurredAt:     now,
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode booking event")
	}
	return tx.Notifications().CreateJob(ctx, kind, kind, payload, now)
}
