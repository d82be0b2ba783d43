/*
Package calendar provides the workday classifier and the date/hour value
types shared by the rest of the system.

PURPOSE:
  Everything in this application is keyed by calendar days, never by
  timestamps. The reference data lives in a hosted database where a date
  column shifted through a timezone becomes the previous day, so the Date
  type here carries year/month/day only and all comparisons are by date.

KEY CONCEPTS:
  - Date:         A calendar day (UTC-normalized, no time-of-day)
  - Month:        A year-month pair, the granularity of the hour bank
  - Hours:        A decimal quantity of hours (see hours.go)
  - WorkCalendar: Weekend + fixed-holiday classification and the
                  expected-hours target per day (see calendar.go)

DESIGN PRINCIPLES:
  1. Purity: classification and targets are total functions, no I/O
  2. Precision: decimal.Decimal for hour arithmetic, never float64
  3. Immutability: a WorkCalendar is built once and never mutated

SEE ALSO:
  - calendar.go: WorkCalendar and expected-hours targets
  - productivity: daily balance and monthly aggregation built on these types
*/
package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day, no time-of-day semantics
// =============================================================================

// Date is a calendar day. The zero value is the zero date.
type Date struct {
	t time.Time
}

// NewDate builds a Date from year/month/day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals in tests and seed data.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// YearMonth returns the Month this date belongs to.
func (d Date) YearMonth() Month { return Month{Year: d.Year(), Month: d.Month()} }

// String formats the date as YYYY-MM-DD, the canonical wire form.
func (d Date) String() string { return d.t.Format("2006-01-02") }

// MarshalJSON / UnmarshalJSON keep the YYYY-MM-DD form on the wire.
func (d Date) MarshalJSON() ([]byte, error) { return []byte(`"` + d.String() + `"`), nil }

func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", b)
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// MONTH - Year-month pair, the hour-bank granularity
// =============================================================================

// Month identifies a calendar month. Bank ledger rows are keyed by it.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing the given date.
func MonthOf(d Date) Month { return d.YearMonth() }

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MustParseMonth is ParseMonth for literals in tests.
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Start returns the first day of the month.
func (m Month) Start() Date { return NewDate(m.Year, m.Month, 1) }

// End returns the last day of the month (actual day count, not padded).
func (m Month) End() Date {
	return Date{t: time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)}
}

// Days returns every day of the month in order. Grid padding to full weeks
// is a presentation concern and never appears here.
func (m Month) Days() []Date {
	var days []Date
	for d := m.Start(); d.BeforeOrEqual(m.End()); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether the date falls strictly within the month.
func (m Month) Contains(d Date) bool { return d.YearMonth() == m }

func (m Month) Prev() Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) Next() Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

// String formats the month as YYYY-MM, the ledger key form.
func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func (m Month) MarshalJSON() ([]byte, error) { return []byte(`"` + m.String() + `"`), nil }

func (m *Month) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid month literal %s", b)
	}
	parsed, err := ParseMonth(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
