package schedule

import (
	"fmt"
	"time"
)

// InstantLayout is the canonical form of a scheduled instant as it appears
// in the dedup store. It keeps the numeric UTC offset (e.g. "+00:00" rather
// than "Z") so stored keys compare stably across zones.
const InstantLayout = "2006-01-02T15:04:05-07:00"

// Spec describes the weekly recurring instant: a weekday plus a wall-clock
// time, interpreted in a named civil timezone. Exactly one instant per
// calendar week satisfies a valid Spec.
type Spec struct {
	Weekday  time.Weekday
	Hour     int
	Minute   int
	Location *time.Location
}

// New validates the schedule parameters and returns an immutable Spec.
func New(weekday int, hour, minute int, tzName string) (Spec, error) {
	if weekday < 0 || weekday > 6 {
		return Spec{}, fmt.Errorf("weekday must be in [0,6] (Sunday=0), got %d", weekday)
	}
	if hour < 0 || hour > 23 {
		return Spec{}, fmt.Errorf("hour must be in [0,23], got %d", hour)
	}
	if minute < 0 || minute > 59 {
		return Spec{}, fmt.Errorf("minute must be in [0,59], got %d", minute)
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return Spec{}, fmt.Errorf("invalid timezone %q: %w", tzName, err)
	}
	return Spec{
		Weekday:  time.Weekday(weekday),
		Hour:     hour,
		Minute:   minute,
		Location: loc,
	}, nil
}

// FormatInstant renders a scheduled instant in the canonical dedup form.
func FormatInstant(t time.Time) string {
	return t.Format(InstantLayout)
}
