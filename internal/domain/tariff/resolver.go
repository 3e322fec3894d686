package tariff

import (
	"context"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrTariffNotFound = errs.NewKind("no tariff found for this vehicle and slot type", errs.ErrKindNotFound)
	ErrTariffInactive = errs.NewKind("tariff plan is not active", errs.ErrKindInactive)
)

type PlanSource interface {
	// PlansForPlace returns every plan of the place with its rates in stored order.
	PlansForPlace(ctx context.Context, placeID uuid.UUID) ([]Plan, error)
}

// Rule is one step of rate matching. Rules run in order; within a rule the
// plan's rates are tried in order and the first match wins.
type Rule struct {
	Name  string
	Match func(r Rate, day DayCategory, at TimeOfDay) bool
}

var DefaultRules = []Rule{
	{
		Name: "day-and-window",
		Match: func(r Rate, day DayCategory, at TimeOfDay) bool {
			return r.DayCategory != nil && *r.DayCategory == day && r.WindowContains(at)
		},
	},
	{
		Name: "day-all-day",
		Match: func(r Rate, day DayCategory, _ TimeOfDay) bool {
			return r.DayCategory != nil && *r.DayCategory == day && !r.HasWindow()
		},
	},
	{
		Name: "any-day",
		Match: func(r Rate, _ DayCategory, _ TimeOfDay) bool {
			return r.DayCategory == nil
		},
	},
	{
		Name: "first-rate",
		Match: func(Rate, DayCategory, TimeOfDay) bool {
			return true
		},
	},
}

type Query struct {
	PlaceID     uuid.UUID
	VehicleType string
	SlotType    string
	Interval    booking.Interval
}

type Resolution struct {
	Plan        Plan
	Rate        Rate
	DayCategory DayCategory
	Rule        string
}

type Resolver struct {
	plans PlanSource
	loc   *time.Location
	rules []Rule
}

func NewResolver(plans PlanSource, loc *time.Location) *Resolver {
	return &Resolver{plans: plans, loc: loc, rules: DefaultRules}
}

func (r *Resolver) ResolveRate(ctx context.Context, q Query) (Resolution, error) {
	plans, err := r.plans.PlansForPlace(ctx, q.PlaceID)
	if err != nil {
		return Resolution{}, errs.Wrap(err, "failed to load tariff plans")
	}

	plan, err := SelectPlan(plans, q.Interval)
	if err != nil {
		return Resolution{}, err
	}

	rates := plan.RatesFor(q.VehicleType, q.SlotType)
	if len(rates) == 0 {
		return Resolution{}, ErrTariffNotFound
	}

	day := DayCategoryOf(q.Interval.Start(), r.loc)
	at := TimeOfDayOf(q.Interval.Start(), r.loc)
	for _, rule := range r.rules {
		for _, rate := range rates {
			if rule.Match(rate, day, at) {
				return Resolution{Plan: plan, Rate: rate, DayCategory: day, Rule: rule.Name}, nil
			}
		}
	}
	return Resolution{}, ErrTariffNotFound
}

// SelectPlan picks the active plan covering the interval with the latest
// EffectiveFrom.
func SelectPlan(plans []Plan, iv booking.Interval) (Plan, error) {
	var (
		best        *Plan
		sawInactive bool
	)
	for i := range plans {
		p := plans[i]
		if !p.Covers(iv) {
			continue
		}
		if !p.IsActive {
			sawInactive = true
			continue
		}
		if best == nil || p.EffectiveFrom.After(best.EffectiveFrom) {
			best = &plans[i]
		}
	}
	if best == nil {
		if sawInactive {
			return Plan{}, ErrTariffInactive
		}
		return Plan{}, ErrTariffNotFound
	}
	return *best, nil
}
