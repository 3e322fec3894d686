package pricing

import (
	"context"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/domain/promo"
	"smart-parking/internal/domain/tariff"
	"smart-parking/internal/pkg/clock"
	"smart-parking/internal/pkg/errs"

	"github.com/google/uuid"
)

// DayRateThresholdHours is the shortest billable duration for which the day
// rate is considered.
const DayRateThresholdHours = 6

type PromoFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*promo.PromoCode, error)
}

// PromoFinderFunc adapts a lookup function, e.g. a locking read, to PromoFinder.
type PromoFinderFunc func(ctx context.Context, id uuid.UUID) (*promo.PromoCode, error)

func (f PromoFinderFunc) FindByID(ctx context.Context, id uuid.UUID) (*promo.PromoCode, error) {
	return f(ctx, id)
}

type Fee struct {
	DurationHours int64
	Base          int64
	Discount      int64
	Total         int64
	// Promo is set only when it produced a discount.
	Promo *promo.PromoCode
}

type Calculator struct {
	promos PromoFinder
	clock  clock.Clock
}

func NewCalculator(promos PromoFinder, clk clock.Clock) *Calculator {
	return &Calculator{promos: promos, clock: clk}
}

// BaseFee charges the minimum for the first started hour and the hourly rate for
// every further started hour. From DayRateThresholdHours on, a cheaper day-rate
// total replaces it.
func BaseFee(rate tariff.Rate, iv booking.Interval) (fee int64, hours int64) {
	hours = iv.BillableHours()

	fee = rate.MinimumCharge
	if hours > 1 {
		fee += (hours - 1) * rate.HourlyRate
	}

	if rate.DayRate != nil && hours >= DayRateThresholdHours {
		days := (hours + 23) / 24
		fee = min(fee, days*(*rate.DayRate))
	}

	return max(fee, rate.MinimumCharge), hours
}

// ComputeFee prices the interval and applies the promo code when it is usable.
// An unknown or ineligible code yields no discount instead of an error.
func (c *Calculator) ComputeFee(ctx context.Context, rate tariff.Rate, iv booking.Interval, promoID *uuid.UUID) (Fee, error) {
	base, hours := BaseFee(rate, iv)
	fee := Fee{DurationHours: hours, Base: base, Total: max(0, base)}

	if promoID == nil {
		return fee, nil
	}

	code, err := c.promos.FindByID(ctx, *promoID)
	if err != nil {
		if errs.Is(err, errs.ErrKindNotFound) {
			return fee, nil
		}
		return Fee{}, errs.Wrap(err, "failed to load promo code")
	}
	if code == nil || !code.UsableAt(c.clock.Now()) {
		return fee, nil
	}

	discount := code.DiscountFor(base)
	if discount == 0 {
		return fee, nil
	}

	fee.Discount = discount
	fee.Total = max(0, base-discount)
	fee.Promo = code
	return fee, nil
}
