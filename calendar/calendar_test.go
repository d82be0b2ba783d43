package calendar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roldanhc-acho/appdspi/calendar"
)

// =============================================================================
// DAY CLASSIFICATION TESTS
// =============================================================================

func TestWorkCalendar_Weekend(t *testing.T) {
	// GIVEN: The default calendar
	// WHEN: Classifying a Saturday and a Sunday
	// THEN: Both are weekends and non-working

	cal := calendar.Default()

	sat := calendar.MustParseDate("2026-03-07")
	sun := calendar.MustParseDate("2026-03-08")

	assert.True(t, cal.IsWeekend(sat))
	assert.True(t, cal.IsWeekend(sun))
	assert.True(t, cal.IsNonWorkingDay(sat))
	assert.True(t, cal.IsNonWorkingDay(sun))
	assert.False(t, cal.IsHoliday(sat))
}

func TestWorkCalendar_WeekdayHoliday(t *testing.T) {
	// GIVEN: The default calendar (2026-01-01 is a Thursday)
	// WHEN: Classifying New Year's Day
	// THEN: It is a holiday, not a weekend, and non-working

	cal := calendar.Default()
	newYear := calendar.MustParseDate("2026-01-01")

	assert.True(t, cal.IsHoliday(newYear))
	assert.False(t, cal.IsWeekend(newYear))
	assert.True(t, cal.IsNonWorkingDay(newYear))
	assert.True(t, cal.ExpectedHours(newYear).IsZero())
}

func TestWorkCalendar_HolidayOnWeekend_WeekendWins(t *testing.T) {
	// GIVEN: A holiday that falls on a Saturday (2026-06-20)
	// WHEN: Classifying the date
	// THEN: It reads as weekend, not holiday; still non-working either way

	cal := calendar.Default()
	d := calendar.MustParseDate("2026-06-20")

	assert.True(t, cal.IsWeekend(d))
	assert.False(t, cal.IsHoliday(d), "weekend label takes priority")
	assert.True(t, cal.IsNonWorkingDay(d))
}

func TestWorkCalendar_PlainWeekday(t *testing.T) {
	// GIVEN: The default calendar
	// WHEN: Classifying an ordinary Tuesday
	// THEN: It is a working day with the standard 9-hour target

	cal := calendar.Default()
	tue := calendar.MustParseDate("2026-03-10")

	assert.False(t, cal.IsNonWorkingDay(tue))
	assert.True(t, cal.ExpectedHours(tue).Equal(calendar.HoursFromInt(9)))
}

// =============================================================================
// RANGE AND MONTH TESTS
// =============================================================================

func TestWorkCalendar_WorkingDays_March2026(t *testing.T) {
	// GIVEN: March 2026 (22 weekdays, one weekday holiday on the 24th)
	// WHEN: Counting working days over the whole month
	// THEN: 21 working days, 189 expected hours

	cal := calendar.Default()
	march := calendar.MustParseMonth("2026-03")

	assert.Equal(t, 21, cal.WorkingDays(march.Start(), march.End()))
	assert.True(t, cal.ExpectedHoursInMonth(march).Equal(calendar.HoursFromInt(189)))
}

func TestWorkCalendar_WorkingDays_SingleDayRange(t *testing.T) {
	cal := calendar.Default()

	tue := calendar.MustParseDate("2026-03-10")
	sat := calendar.MustParseDate("2026-03-07")

	assert.Equal(t, 1, cal.WorkingDays(tue, tue))
	assert.Equal(t, 0, cal.WorkingDays(sat, sat))
}

func TestMonth_DaysAndBounds(t *testing.T) {
	// GIVEN: February 2026 (non-leap year)
	// WHEN: Enumerating the month
	// THEN: 28 days, correct first/last dates

	feb := calendar.MustParseMonth("2026-02")

	days := feb.Days()
	require.Len(t, days, 28)
	assert.Equal(t, "2026-02-01", days[0].String())
	assert.Equal(t, "2026-02-28", days[27].String())
	assert.Equal(t, "2026-02-01", feb.Start().String())
	assert.Equal(t, "2026-02-28", feb.End().String())
}

func TestMonth_Contains(t *testing.T) {
	march := calendar.MustParseMonth("2026-03")

	assert.True(t, march.Contains(calendar.MustParseDate("2026-03-01")))
	assert.True(t, march.Contains(calendar.MustParseDate("2026-03-31")))
	assert.False(t, march.Contains(calendar.MustParseDate("2026-02-28")))
	assert.False(t, march.Contains(calendar.MustParseDate("2026-04-01")))
}

func TestMonth_PrevNext_YearBoundary(t *testing.T) {
	jan := calendar.MustParseMonth("2026-01")

	assert.Equal(t, "2025-12", jan.Prev().String())
	assert.Equal(t, "2026-02", jan.Next().String())
}

// =============================================================================
// CONSTRUCTION AND PARSING TESTS
// =============================================================================

func TestNewWorkCalendar_RejectsBadInput(t *testing.T) {
	_, err := calendar.NewWorkCalendar([]string{"not-a-date"}, calendar.HoursFromInt(9))
	assert.Error(t, err)

	_, err = calendar.NewWorkCalendar(nil, calendar.HoursFromInt(-1))
	assert.Error(t, err)
}

func TestNewWorkCalendar_CustomWorkday(t *testing.T) {
	// GIVEN: A calendar configured with an 8-hour workday and one holiday
	// WHEN: Asking for targets
	// THEN: Weekdays get 8, the holiday gets 0

	cal, err := calendar.NewWorkCalendar([]string{"2026-03-10"}, calendar.HoursFromInt(8))
	require.NoError(t, err)

	assert.True(t, cal.ExpectedHours(calendar.MustParseDate("2026-03-09")).Equal(calendar.HoursFromInt(8)))
	assert.True(t, cal.ExpectedHours(calendar.MustParseDate("2026-03-10")).IsZero())
	assert.True(t, cal.IsHoliday(calendar.MustParseDate("2026-03-10")))
}

func TestParseDate_RoundTrip(t *testing.T) {
	d, err := calendar.ParseDate("2026-07-09")
	require.NoError(t, err)
	assert.Equal(t, "2026-07-09", d.String())

	_, err = calendar.ParseDate("09/07/2026")
	assert.Error(t, err)
}

func TestParseMonth_RoundTrip(t *testing.T) {
	m, err := calendar.ParseMonth("2026-07")
	require.NoError(t, err)
	assert.Equal(t, "2026-07", m.String())

	_, err = calendar.ParseMonth("2026-7")
	assert.Error(t, err)
	_, err = calendar.ParseMonth("2026-07-01")
	assert.Error(t, err)
}

// =============================================================================
// HOURS ARITHMETIC TESTS
// =============================================================================

func TestHours_Arithmetic(t *testing.T) {
	a := calendar.HoursFromFloat(7.5)
	b := calendar.HoursFromInt(9)

	assert.True(t, a.Sub(b).Equal(calendar.HoursFromFloat(-1.5)))
	assert.True(t, a.Add(b).Equal(calendar.HoursFromFloat(16.5)))
	assert.True(t, a.Sub(b).IsNegative())
	assert.True(t, a.Sub(b).ClampNonNegative().IsZero())
	assert.True(t, b.Sub(a).ClampNonNegative().Equal(calendar.HoursFromFloat(1.5)))
}

func TestHours_ExactDecimalSums(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3; float arithmetic would drift.
	sum := calendar.HoursFromFloat(0.1).Add(calendar.HoursFromFloat(0.2))
	assert.True(t, sum.Equal(calendar.HoursFromFloat(0.3)))
	assert.Equal(t, "0.3", sum.String())
}
