package shared

import (
	"context"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/domain/pricing"
	"smart-parking/internal/domain/slot"
	"smart-parking/internal/domain/tariff"
	"smart-parking/internal/domain/vehicle"
	"smart-parking/internal/pkg/clock"

	"github.com/google/uuid"
)

// Quote is the priced outcome of tariff resolution for one interval.
type Quote struct {
	pricing.Fee
	Resolution tariff.Resolution
}

func (q Quote) PromoCodeID() *uuid.UUID {
	if q.Promo == nil {
		return nil
	}
	id := q.Promo.ID
	return &id
}

// PriceBooking resolves the rate for the slot and vehicle and prices the interval.
// Promo codes are read through promos.
func PriceBooking(
	ctx context.Context,
	tx Tx,
	promos pricing.PromoFinder,
	clk clock.Clock,
	loc *time.Location,
	s *slot.Slot,
	v *vehicle.Vehicle,
	interval booking.Interval,
	promoID *uuid.UUID,
) (Quote, error) {
	resolution, err := tariff.NewResolver(tx.Tariffs(), loc).ResolveRate(ctx, tariff.Query{
		PlaceID:     s.PlaceID,
		VehicleType: v.VehicleType,
		SlotType:    s.SlotType,
		Interval:    interval,
	})
	if err != nil {
		return Quote{}, err
	}

	fee, err := pricing.NewCalculator(promos, clk).ComputeFee(ctx, resolution.Rate, interval, promoID)
	if err != nil {
		return Quote{}, err
	}

	return Quote{Fee: fee, Resolution: resolution}, nil
}
