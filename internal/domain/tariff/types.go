package tariff

import (
	"fmt"
	"time"

	"smart-parking/internal/pkg/errs"
)

var ErrInvalidTimeOfDay = errs.NewKind("invalid time of day", errs.ErrKindValidation)

type DayCategory string

const (
	Weekday DayCategory = "WEEKDAY"
	Weekend DayCategory = "WEEKEND"
)

func (d DayCategory) String() string {
	return string(d)
}

// DayCategoryOf classifies t by its weekday in loc.
func DayCategoryOf(t time.Time, loc *time.Location) DayCategory {
	switch t.In(loc).Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return Weekday
	}
}

// TimeOfDay is minutes after local midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, ErrInvalidTimeOfDay
	}
	return TimeOfDay(hour*60 + minute), nil
}

func TimeOfDayOf(t time.Time, loc *time.Location) TimeOfDay {
	lt := t.In(loc)
	return TimeOfDay(lt.Hour()*60 + lt.Minute())
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS"; seconds are dropped.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, errs.Wrapf(ErrInvalidTimeOfDay, "%q", s)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}
