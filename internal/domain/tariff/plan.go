package tariff

import (
	"time"

	"smart-parking/internal/domain/booking"

	"github.com/google/uuid"
)

type Plan struct {
	ID             uuid.UUID  `json:"id"`
	PlaceID        uuid.UUID  `json:"placeId"`
	Name           string     `json:"name"`
	EffectiveFrom  time.Time  `json:"effectiveFrom"`
	EffectiveUntil *time.Time `json:"effectiveUntil,omitempty"`
	IsActive       bool       `json:"isActive"`
	Rates          []Rate     `json:"rates"`
}

// Rate prices one vehicle type on one slot type, optionally limited to a day
// category and a time-of-day window. GracePeriodMinutes is stored but not billed.
type Rate struct {
	ID                 uuid.UUID    `json:"id"`
	PlanID             uuid.UUID    `json:"planId"`
	VehicleType        string       `json:"vehicleType"`
	SlotType           string       `json:"slotType"`
	DayCategory        *DayCategory `json:"dayCategory,omitempty"`
	StartTime          *TimeOfDay   `json:"startTime,omitempty"`
	EndTime            *TimeOfDay   `json:"endTime,omitempty"`
	BasePrice          int64        `json:"basePrice"`
	HourlyRate         int64        `json:"hourlyRate"`
	DayRate            *int64       `json:"dayRate,omitempty"`
	MinimumCharge      int64        `json:"minimumCharge"`
	GracePeriodMinutes int          `json:"gracePeriodMinutes"`
}

// Covers reports whether the plan's effective window spans the whole interval.
func (p Plan) Covers(iv booking.Interval) bool {
	if p.EffectiveFrom.After(iv.Start()) {
		return false
	}
	return p.EffectiveUntil == nil || !p.EffectiveUntil.Before(iv.End())
}

// RatesFor keeps plan order.
func (p Plan) RatesFor(vehicleType, slotType string) []Rate {
	var out []Rate
	for _, r := range p.Rates {
		if r.VehicleType == vehicleType && r.SlotType == slotType {
			out = append(out, r)
		}
	}
	return out
}

func (r Rate) HasWindow() bool {
	return r.StartTime != nil && r.EndTime != nil
}

// WindowContains treats windows whose end is before their start as wrapping midnight.
func (r Rate) WindowContains(t TimeOfDay) bool {
	if !r.HasWindow() {
		return false
	}
	start, end := *r.StartTime, *r.EndTime
	if end < start {
		return t >= start || t < end
	}
	return t >= start && t < end
}
