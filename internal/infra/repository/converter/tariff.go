package converter

import (
	"time"

	"smart-parking/internal/domain/promo"
	"smart-parking/internal/domain/tariff"
	"smart-parking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PlanRow struct {
	ID             uuid.UUID
	PlaceID        uuid.UUID
	Name           string
	EffectiveFrom  time.Time
	EffectiveUntil pgtype.Timestamptz
	IsActive       bool
}

type RateRow struct {
	ID                 uuid.UUID
	PlanID             uuid.UUID
	VehicleType        string
	SlotType           string
	DayCategory        pgtype.Text
	StartTime          pgtype.Time
	EndTime            pgtype.Time
	BasePrice          int64
	HourlyRate         int64
	DayRate            pgtype.Int8
	MinimumCharge      int64
	GracePeriodMinutes int32
}

func PlanToDomain(p PlanRow, rates []tariff.Rate) tariff.Plan {
	return tariff.Plan{
		ID:             p.ID,
		PlaceID:        p.PlaceID,
		Name:           p.Name,
		EffectiveFrom:  p.EffectiveFrom,
		EffectiveUntil: pgconv.TimePtrFromPgtype(p.EffectiveUntil),
		IsActive:       p.IsActive,
		Rates:          rates,
	}
}

func RateToDomain(r RateRow) tariff.Rate {
	rate := tariff.Rate{
		ID:                 r.ID,
		PlanID:             r.PlanID,
		VehicleType:        r.VehicleType,
		SlotType:           r.SlotType,
		BasePrice:          r.BasePrice,
		HourlyRate:         r.HourlyRate,
		DayRate:            pgconv.Int64PtrFromPgtype(r.DayRate),
		MinimumCharge:      r.MinimumCharge,
		GracePeriodMinutes: int(r.GracePeriodMinutes),
	}
	if r.DayCategory.Valid {
		dc := tariff.DayCategory(r.DayCategory.String)
		rate.DayCategory = &dc
	}
	if m := pgconv.MinutesPtrFromPgtype(r.StartTime); m != nil {
		t := tariff.TimeOfDay(*m)
		rate.StartTime = &t
	}
	if m := pgconv.MinutesPtrFromPgtype(r.EndTime); m != nil {
		t := tariff.TimeOfDay(*m)
		rate.EndTime = &t
	}
	return rate
}

type PromoRow struct {
	ID            uuid.UUID
	Code          string
	DiscountType  string
	DiscountValue pgtype.Numeric
	MinimumSpend  int64
	ValidFrom     pgtype.Timestamptz
	ValidUntil    pgtype.Timestamptz
	UsageLimit    pgtype.Int4
	UsageCount    int32
	IsActive      bool
}

func PromoToDomain(r PromoRow) (*promo.PromoCode, error) {
	dt, err := promo.ParseDiscountType(r.DiscountType)
	if err != nil {
		return nil, err
	}
	value, err := pgconv.ScaledInt64FromNumeric(r.DiscountValue, 2)
	if err != nil {
		return nil, err
	}
	return &promo.PromoCode{
		ID:                 r.ID,
		Code:               r.Code,
		DiscountType:       dt,
		DiscountHundredths: value,
		MinimumSpend:       r.MinimumSpend,
		ValidFrom:          pgconv.TimePtrFromPgtype(r.ValidFrom),
		ValidUntil:         pgconv.TimePtrFromPgtype(r.ValidUntil),
		UsageLimit:         pgconv.IntPtrFromPgtype(r.UsageLimit),
		UsageCount:         int(r.UsageCount),
		IsActive:           r.IsActive,
	}, nil
}
