package booking

import "time"

// Interval is a scheduled parking window [start, end).
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() {
		return Interval{}, ErrIntervalRequired
	}
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: start, end: end}, nil
}

func (i Interval) Start() time.Time {
	return i.start
}

func (i Interval) End() time.Time {
	return i.end
}

func (i Interval) Duration() time.Duration {
	return i.end.Sub(i.start)
}

// BillableHours rounds the duration up to whole hours.
func (i Interval) BillableHours() int64 {
	ms := i.Duration().Milliseconds()
	hourMs := time.Hour.Milliseconds()
	hours := ms / hourMs
	if ms%hourMs != 0 {
		hours++
	}
	return hours
}

// Overlaps uses inclusive bounds, so intervals that only touch overlap.
func (i Interval) Overlaps(other Interval) bool {
	return !i.start.After(other.end) && !i.end.Before(other.start)
}

func (i Interval) In(loc *time.Location) Interval {
	return Interval{start: i.start.In(loc), end: i.end.In(loc)}
}
