package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// MonthYearLayout is the wire format of a MonthYear ("YYYY-MM")
const MonthYearLayout = "2006-01"

// MonthYear identifies a calendar month. It is the key of global budgets and
// half of the key of category budgets.
type MonthYear struct {
	Year  int
	Month time.Month
}

// ParseMonthYear parses a "YYYY-MM" string
func ParseMonthYear(s string) (MonthYear, error) {
	t, err := time.Parse(MonthYearLayout, s)
	if err != nil {
		return MonthYear{}, NewValidationError("month_year", fmt.Sprintf("invalid month %q, expected YYYY-MM", s))
	}
	return MonthYear{Year: t.Year(), Month: t.Month()}, nil
}

// MonthYearOf returns the month containing t
func MonthYearOf(t time.Time) MonthYear {
	return MonthYear{Year: t.Year(), Month: t.Month()}
}

// String formats the month as "YYYY-MM"
func (m MonthYear) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// IsZero reports whether m is the zero value
func (m MonthYear) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Start returns midnight UTC on the first day of the month
func (m MonthYear) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC on the last day of the month
func (m MonthYear) End() time.Time {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the calendar date of t falls in the month
func (m MonthYear) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// AddMonths returns the month n months after m (n may be negative)
func (m MonthYear) AddMonths(n int) MonthYear {
	return MonthYearOf(time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

// Previous returns the month before m
func (m MonthYear) Previous() MonthYear {
	return m.AddMonths(-1)
}

// Before reports whether m is strictly earlier than other
func (m MonthYear) Before(other MonthYear) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// MarshalJSON encodes the month as "YYYY-MM"
func (m MonthYear) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a "YYYY-MM" string
func (m *MonthYear) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMonthYear(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
