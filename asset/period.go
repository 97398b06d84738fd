package asset

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - Posting interval and idempotency key
// =============================================================================

// Period identifies one calendar-month posting interval. Its Key ("2025-01")
// is the idempotency key for depreciation entries: one entry per
// (AssetID, Period), enforced by the store.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod builds a period for a given year and month.
func NewPeriod(year int, month time.Month) Period {
	return Period{Year: year, Month: month}
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a "YYYY-MM" key.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, &ValidationError{Field: "period", Reason: fmt.Sprintf("invalid period %q, want YYYY-MM", s)}
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// MustParsePeriod is ParsePeriod for literals in tests and wiring code.
func MustParsePeriod(s string) Period {
	p, err := ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Key returns the stable "YYYY-MM" identifier.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p Period) String() string { return p.Key() }

func (p Period) IsZero() bool { return p.Year == 0 }

// Start returns the first instant of the period (UTC midnight, day 1).
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the period at UTC midnight.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	return PeriodOf(p.Start().AddDate(0, 1, 0))
}

// Previous returns the preceding calendar month.
func (p Period) Previous() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}

// Before reports whether p precedes other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// MonthsBetween returns the number of whole months from p to other.
// Zero when equal, negative when other precedes p.
func MonthsBetween(p, other Period) int {
	return (other.Year-p.Year)*12 + int(other.Month) - int(p.Month)
}
