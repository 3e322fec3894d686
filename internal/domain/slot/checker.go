package slot

import (
	"context"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/pkg/errs"

	"github.com/google/uuid"
)

type Finder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Slot, error)
}

// FinderFunc adapts a lookup function, e.g. a locking read, to Finder.
type FinderFunc func(ctx context.Context, id uuid.UUID) (*Slot, error)

func (f FinderFunc) FindByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	return f(ctx, id)
}

type OverlapFinder interface {
	// HasActiveOverlap reports whether a booking in an active status on the slot
	// overlaps the interval, bounds inclusive.
	HasActiveOverlap(ctx context.Context, slotID uuid.UUID, interval booking.Interval) (bool, error)
}

// Checker decides whether a slot can take a booking for an interval. It never writes.
type Checker struct {
	slots    Finder
	bookings OverlapFinder
}

func NewChecker(slots Finder, bookings OverlapFinder) *Checker {
	return &Checker{slots: slots, bookings: bookings}
}

func (c *Checker) CheckAvailability(ctx context.Context, slotID uuid.UUID, interval booking.Interval) (*Slot, error) {
	s, err := c.slots.FindByID(ctx, slotID)
	if err != nil {
		if errs.Is(err, errs.ErrKindNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, errs.Wrap(err, "failed to load slot")
	}
	if s == nil {
		return nil, ErrSlotNotFound
	}

	if !s.IsActive {
		return nil, ErrSlotInactive
	}
	if s.IsReserved || s.IsOccupied {
		return nil, ErrSlotUnavailable
	}

	overlap, err := c.bookings.HasActiveOverlap(ctx, slotID, interval)
	if err != nil {
		return nil, errs.Wrap(err, "failed to check overlapping bookings")
	}
	if overlap {
		return nil, ErrSlotConflict
	}

	return s, nil
}
