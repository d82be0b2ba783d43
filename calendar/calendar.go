package calendar

import (
	"fmt"
	"sort"
)

// =============================================================================
// WORK CALENDAR - Weekend/holiday classification and daily targets
// =============================================================================

// DefaultWorkdayHours is the standard workday length. It is a configuration
// default, not business law; construct the calendar with a different value
// where a site needs one.
const DefaultWorkdayHours = 9

// WorkCalendar classifies calendar days and supplies the expected-hours
// target. It is built once at startup from configuration and is immutable
// afterwards; replace the whole value to change years or targets.
type WorkCalendar struct {
	holidays     map[string]bool // keyed by YYYY-MM-DD
	workdayHours Hours
}

// NewWorkCalendar builds a calendar from a fixed-holiday list (YYYY-MM-DD
// strings) and a standard workday length in hours.
func NewWorkCalendar(holidays []string, workdayHours Hours) (*WorkCalendar, error) {
	set := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		if _, err := ParseDate(h); err != nil {
			return nil, fmt.Errorf("holiday list: %w", err)
		}
		set[h] = true
	}
	if workdayHours.IsNegative() {
		return nil, fmt.Errorf("workday hours must be non-negative, got %s", workdayHours)
	}
	return &WorkCalendar{holidays: set, workdayHours: workdayHours}, nil
}

// Default returns a calendar with the built-in holiday set and the standard
// 9-hour workday.
func Default() *WorkCalendar {
	cal, err := NewWorkCalendar(DefaultHolidays(), HoursFromInt(DefaultWorkdayHours))
	if err != nil {
		panic(err) // built-in list is well-formed
	}
	return cal
}

// IsWeekend reports Saturday or Sunday, regardless of the holiday list.
func (c *WorkCalendar) IsWeekend(d Date) bool { return d.IsWeekend() }

// IsHoliday reports a fixed holiday that does NOT fall on a weekend. The
// weekend check takes priority so weekend and holiday stay mutually
// exclusive labels for display, even though both mean non-working.
func (c *WorkCalendar) IsHoliday(d Date) bool {
	if d.IsWeekend() {
		return false
	}
	return c.holidays[d.String()]
}

// IsNonWorkingDay reports whether the date is a weekend or a fixed holiday.
func (c *WorkCalendar) IsNonWorkingDay(d Date) bool {
	return d.IsWeekend() || c.holidays[d.String()]
}

// ExpectedHours returns the day's target: zero on non-working days, the
// standard workday length otherwise.
func (c *WorkCalendar) ExpectedHours(d Date) Hours {
	if c.IsNonWorkingDay(d) {
		return ZeroHours
	}
	return c.workdayHours
}

// WorkdayHours returns the configured standard workday length.
func (c *WorkCalendar) WorkdayHours() Hours { return c.workdayHours }

// WorkingDays counts working days in [from, to], inclusive on both ends.
func (c *WorkCalendar) WorkingDays(from, to Date) int {
	count := 0
	for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
		if !c.IsNonWorkingDay(d) {
			count++
		}
	}
	return count
}

// ExpectedHoursInMonth returns the month's total target, the figure the
// monthly report shows next to each user's logged hours.
func (c *WorkCalendar) ExpectedHoursInMonth(m Month) Hours {
	total := ZeroHours
	for _, d := range m.Days() {
		total = total.Add(c.ExpectedHours(d))
	}
	return total
}

// Holidays returns the configured holiday dates in order, for display.
func (c *WorkCalendar) Holidays() []string {
	out := make([]string, 0, len(c.holidays))
	for h := range c.holidays {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// DEFAULT HOLIDAY SET
// =============================================================================

// DefaultHolidays returns the built-in fixed-holiday list (Argentina, 2026).
// Deployments swap it per year via configuration.
func DefaultHolidays() []string {
	return []string{
		"2026-01-01", // Año Nuevo
		"2026-02-16", // Carnaval
		"2026-02-17", // Carnaval
		"2026-03-24", // Día Nacional de la Memoria por la Verdad y la Justicia
		"2026-04-02", // Día del Veterano y de los Caídos en la Guerra de Malvinas
		"2026-04-03", // Viernes Santo
		"2026-05-01", // Día del Trabajador
		"2026-05-25", // Día de la Revolución de Mayo
		"2026-06-20", // Paso a la Inmortalidad del General Manuel Belgrano
		"2026-07-09", // Día de la Independencia
		"2026-12-08", // Día de la Inmaculada Concepción de María
		"2026-12-25", // Navidad
	}
}
