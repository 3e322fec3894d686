//go:build unit

package tariff_test

import (
	"context"
	"testing"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/domain/tariff"
	"smart-parking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

type planSource []tariff.Plan

func (p planSource) PlansForPlace(_ context.Context, placeID uuid.UUID) ([]tariff.Plan, error) {
	var out []tariff.Plan
	for _, plan := range p {
		if plan.PlaceID == placeID {
			out = append(out, plan)
		}
	}
	return out, nil
}

func day(d tariff.DayCategory) *tariff.DayCategory { return &d }

func tod(t *testing.T, s string) *tariff.TimeOfDay {
	t.Helper()
	v, err := tariff.ParseTimeOfDay(s)
	require.NoError(t, err)
	return &v
}

func window(t *testing.T, start time.Time, d time.Duration) booking.Interval {
	t.Helper()
	iv, err := booking.NewInterval(start, start.Add(d))
	require.NoError(t, err)
	return iv
}

func rate(name string, mutate func(*tariff.Rate)) tariff.Rate {
	r := tariff.Rate{
		ID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		VehicleType:   "car",
		SlotType:      "regular",
		HourlyRate:    2000,
		MinimumCharge: 5000,
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func rateID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
}

func TestDayCategoryOf(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want tariff.DayCategory
	}{
		{"friday late evening", time.Date(2025, 3, 14, 23, 59, 59, 0, jakarta), tariff.Weekday},
		{"saturday midnight", time.Date(2025, 3, 15, 0, 0, 0, 0, jakarta), tariff.Weekend},
		{"sunday noon", time.Date(2025, 3, 16, 12, 0, 0, 0, jakarta), tariff.Weekend},
		{"monday midnight", time.Date(2025, 3, 17, 0, 0, 0, 0, jakarta), tariff.Weekday},
		// Friday 17:00 UTC is Saturday 00:00 in Jakarta.
		{"utc instant classified in local zone", time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC), tariff.Weekend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tariff.DayCategoryOf(tt.at, jakarta))
		})
	}
}

func TestRate_WindowContains(t *testing.T) {
	day := rate("day", func(r *tariff.Rate) { r.StartTime, r.EndTime = tod(t, "06:00"), tod(t, "18:00") })
	night := rate("night", func(r *tariff.Rate) { r.StartTime, r.EndTime = tod(t, "23:00"), tod(t, "06:00") })

	tests := []struct {
		name string
		rate tariff.Rate
		at   string
		want bool
	}{
		{"day window start inclusive", day, "06:00", true},
		{"day window end exclusive", day, "18:00", false},
		{"day window inside", day, "12:30", true},
		{"night window before midnight", night, "23:30", true},
		{"night window after midnight", night, "02:00", true},
		{"night window end exclusive", night, "06:00", false},
		{"night window midday", night, "12:00", false},
		{"no window", rate("plain", nil), "12:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rate.WindowContains(*tod(t, tt.at)))
		})
	}
}

func TestResolver_ResolveRate(t *testing.T) {
	ctx := context.Background()
	placeID := uuid.New()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, jakarta)
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta)
	saturday := time.Date(2025, 3, 15, 0, 0, 0, 0, jakarta)

	rates := []tariff.Rate{
		rate("weekday-day", func(r *tariff.Rate) {
			r.DayCategory = day(tariff.Weekday)
			r.StartTime, r.EndTime = tod(t, "06:00"), tod(t, "18:00")
		}),
		rate("weekday-night", func(r *tariff.Rate) {
			r.DayCategory = day(tariff.Weekday)
			r.StartTime, r.EndTime = tod(t, "22:00"), tod(t, "06:00")
		}),
		rate("weekday-all", func(r *tariff.Rate) { r.DayCategory = day(tariff.Weekday) }),
		rate("motorcycle", func(r *tariff.Rate) { r.VehicleType = "motorcycle" }),
	}
	plan := tariff.Plan{ID: uuid.New(), PlaceID: placeID, EffectiveFrom: from, IsActive: true, Rates: rates}
	resolver := tariff.NewResolver(planSource{plan}, jakarta)

	tests := []struct {
		name     string
		vehicle  string
		start    time.Time
		wantRate uuid.UUID
		wantRule string
		wantDay  tariff.DayCategory
	}{
		{"weekday inside day window", "car", monday.Add(9 * time.Hour), rateID("weekday-day"), "day-and-window", tariff.Weekday},
		{"weekday wraparound window", "car", monday.Add(23 * time.Hour), rateID("weekday-night"), "day-and-window", tariff.Weekday},
		{"weekday outside windows", "car", monday.Add(19 * time.Hour), rateID("weekday-all"), "day-all-day", tariff.Weekday},
		{"weekend falls back to first rate", "car", saturday.Add(10 * time.Hour), rateID("weekday-day"), "first-rate", tariff.Weekend},
		{"vehicle filter", "motorcycle", monday.Add(9 * time.Hour), rateID("motorcycle"), "any-day", tariff.Weekday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := resolver.ResolveRate(ctx, tariff.Query{
				PlaceID:     placeID,
				VehicleType: tt.vehicle,
				SlotType:    "regular",
				Interval:    window(t, tt.start, 2*time.Hour),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantRate, res.Rate.ID)
			assert.Equal(t, tt.wantRule, res.Rule)
			assert.Equal(t, tt.wantDay, res.DayCategory)
			assert.Equal(t, plan.ID, res.Plan.ID)
		})
	}

	t.Run("wildcard beats first rate on weekend", func(t *testing.T) {
		p := plan
		p.Rates = append([]tariff.Rate{rates[0]}, rate("wildcard", nil))
		res, err := tariff.NewResolver(planSource{p}, jakarta).ResolveRate(ctx, tariff.Query{
			PlaceID: placeID, VehicleType: "car", SlotType: "regular",
			Interval: window(t, saturday.Add(10*time.Hour), time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, rateID("wildcard"), res.Rate.ID)
		assert.Equal(t, "any-day", res.Rule)
	})
}

func TestResolver_Errors(t *testing.T) {
	ctx := context.Background()
	placeID := uuid.New()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, jakarta)
	until := time.Date(2025, 6, 30, 0, 0, 0, 0, jakarta)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, jakarta)

	tests := []struct {
		name    string
		plans   planSource
		vehicle string
		start   time.Time
		errIs   error
		kind    error
	}{
		{
			name:    "no plan for place",
			vehicle: "car",
			start:   start,
			errIs:   tariff.ErrTariffNotFound,
			kind:    errs.ErrKindNotFound,
		},
		{
			name: "plan without rates for the vehicle",
			plans: planSource{{
				PlaceID: placeID, EffectiveFrom: from, IsActive: true,
				Rates: []tariff.Rate{rate("car", nil)},
			}},
			vehicle: "truck",
			start:   start,
			errIs:   tariff.ErrTariffNotFound,
			kind:    errs.ErrKindNotFound,
		},
		{
			name: "plan ended before the interval",
			plans: planSource{{
				PlaceID: placeID, EffectiveFrom: from, EffectiveUntil: &until, IsActive: true,
				Rates: []tariff.Rate{rate("car", nil)},
			}},
			vehicle: "car",
			start:   until.Add(-time.Hour),
			errIs:   tariff.ErrTariffNotFound,
			kind:    errs.ErrKindNotFound,
		},
		{
			name: "only inactive plan covers",
			plans: planSource{{
				PlaceID: placeID, EffectiveFrom: from, IsActive: false,
				Rates: []tariff.Rate{rate("car", nil)},
			}},
			vehicle: "car",
			start:   start,
			errIs:   tariff.ErrTariffInactive,
			kind:    errs.ErrKindInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tariff.NewResolver(tt.plans, jakarta).ResolveRate(ctx, tariff.Query{
				PlaceID: placeID, VehicleType: tt.vehicle, SlotType: "regular",
				Interval: window(t, tt.start, 2*time.Hour),
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.errIs)
			assert.True(t, errs.Is(err, tt.kind))
		})
	}
}

func TestSelectPlan_LatestEffectiveFromWins(t *testing.T) {
	older := tariff.Plan{ID: uuid.New(), EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, jakarta), IsActive: true}
	newer := tariff.Plan{ID: uuid.New(), EffectiveFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, jakarta), IsActive: true}
	future := tariff.Plan{ID: uuid.New(), EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, jakarta), IsActive: true}

	got, err := tariff.SelectPlan(
		[]tariff.Plan{older, future, newer},
		window(t, time.Date(2025, 3, 10, 9, 0, 0, 0, jakarta), time.Hour),
	)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
}

func TestParseTimeOfDay(t *testing.T) {
	v, err := tariff.ParseTimeOfDay("23:15:00")
	require.NoError(t, err)
	assert.Equal(t, "23:15", v.String())

	_, err = tariff.ParseTimeOfDay("25:00")
	assert.ErrorIs(t, err, tariff.ErrInvalidTimeOfDay)
}
