package queries

import (
	"context"
	"strings"
	"time"

	"smart-parking/internal/domain/auth"
	"smart-parking/internal/domain/booking"
	"smart-parking/internal/domain/slot"
	"smart-parking/internal/domain/vehicle"
	reqdto "smart-parking/internal/handler/dto/request"
	"smart-parking/internal/pkg/clock"
	"smart-parking/internal/pkg/errs"
	"smart-parking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCursor = errs.NewKind("invalid cursor", errs.ErrKindValidation)
	ErrInvalidOffset = errs.NewKind("offset cannot be negative", errs.ErrKindValidation)
)

type BookingPage struct {
	Items []*BookingListItem `json:"items"`
	Next  *Cursor            `json:"next,omitempty"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, principal auth.Principal, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, principal auth.Principal, req reqdto.ListBookingsRequest) (*BookingPage, error)
	Quote(ctx context.Context, req reqdto.CreateBookingRequest, principal auth.Principal) (*QuoteView, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, filter BookingFilter) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	repo  BookingViewRepo
	uow   shared.UnitOfWork
	clock clock.Clock
	loc   *time.Location
}

func NewBookingQueries(repo BookingViewRepo, uow shared.UnitOfWork, clk clock.Clock, loc *time.Location) BookingQueries {
	if loc == nil {
		loc = time.UTC
	}
	return &bookingQueriesImpl{repo: repo, uow: uow, clock: clk, loc: loc}
}

// GetByID hides other users' bookings behind NotFound unless the principal is an admin.
func (q *bookingQueriesImpl) GetByID(ctx context.Context, principal auth.Principal, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if errs.Is(err, errs.ErrKindNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	if !principal.CanAccess(view.UserID) {
		return nil, booking.ErrBookingNotFound
	}
	return view, nil
}

func (q *bookingQueriesImpl) List(ctx context.Context, principal auth.Principal, req reqdto.ListBookingsRequest) (*BookingPage, error) {
	filter := BookingFilter{
		UserID: principal.UserID(),
		Limit:  ValidateLimit(req.Limit),
		Offset: req.Offset,
	}

	if s := strings.TrimSpace(req.Status); s != "" {
		status, err := booking.ParseStatus(strings.ToLower(s))
		if err != nil {
			return nil, err
		}
		str := status.String()
		filter.Status = &str
	}

	if req.After != "" {
		keyset, err := DecodeAfterCursor(req.After)
		if err != nil {
			return nil, errs.Wrap(ErrInvalidCursor, err.Error())
		}
		filter.After = keyset
		filter.Offset = 0
	} else if filter.Offset < 0 {
		return nil, ErrInvalidOffset
	}

	pageSize := filter.Limit
	filter.Limit = pageSize + 1
	items, err := q.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &BookingPage{Items: items}
	if len(items) > pageSize {
		page.Items = items[:pageSize]
		last := page.Items[pageSize-1]
		page.Next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}
	return page, nil
}

// Quote prices a prospective booking without reserving anything.
func (q *bookingQueriesImpl) Quote(ctx context.Context, req reqdto.CreateBookingRequest, principal auth.Principal) (*QuoteView, error) {
	interval, err := req.Interval()
	if err != nil {
		return nil, err
	}

	var result shared.Quote
	err = q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Slots().FindByID(ctx, req.SlotID)
		if err != nil {
			if errs.Is(err, errs.ErrKindNotFound) {
				return slot.ErrSlotNotFound
			}
			return err
		}
		if !s.IsActive {
			return slot.ErrSlotInactive
		}
		if s.PlaceID != req.PlaceID {
			return errs.Wrap(slot.ErrSlotNotFound, "slot does not belong to the requested place")
		}

		v, err := tx.Vehicles().FindOwned(ctx, req.VehicleID, principal.UserID())
		if err != nil {
			if errs.Is(err, errs.ErrKindNotFound) {
				return vehicle.ErrVehicleNotFound
			}
			return err
		}

		result, err = shared.PriceBooking(ctx, tx, tx.Promos(), q.clock, q.loc, s, v, interval, req.GetPromoCodeID())
		return err
	})
	if err != nil {
		return nil, err
	}

	return &QuoteView{
		EstimatedPrice: result.Total,
		BasePrice:      result.Base,
		Discount:       result.Discount,
		DurationHours:  result.DurationHours,
		PlanID:         result.Resolution.Plan.ID,
		RateID:         result.Resolution.Rate.ID,
		DayCategory:    string(result.Resolution.DayCategory),
		MatchedRule:    result.Resolution.Rule,
		PromoCodeID:    result.PromoCodeID(),
	}, nil
}
