package util

import (
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
)

// LoadLocation loads the named time zone; an empty name means UTC
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// ClockIn returns a clock that reports the current time in loc
func ClockIn(loc *time.Location) func() time.Time {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// CurrentMonth returns the month containing now in loc
func CurrentMonth(now time.Time, loc *time.Location) domain.MonthYear {
	return domain.MonthYearOf(now.In(loc))
}

// IsFutureMonth returns true if month starts after the month containing now
func IsFutureMonth(month domain.MonthYear, now time.Time, loc *time.Location) bool {
	return CurrentMonth(now, loc).Before(month)
}
