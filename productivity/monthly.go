package productivity

import "github.com/roldanhc-acho/appdspi/calendar"

// =============================================================================
// MONTHLY SUMMARY - One user, one month
// =============================================================================

// MonthlySummary is the month's productivity state for one user.
type MonthlySummary struct {
	Month calendar.Month

	// Simple sum of hours logged in the month, independent of targets and
	// absences. Reported separately for display.
	TotalHoursLogged calendar.Hours

	// Sum of daily balances over the month's actual days.
	RawProductivity calendar.Hours

	// hours_saved already transferred to the bank this month (0 if no row).
	SavedThisMonth calendar.Hours

	// RawProductivity - SavedThisMonth; what the user sees as "productivity".
	DisplayedProductivity calendar.Hours

	// max(0, RawProductivity - SavedThisMonth); the transferable surplus.
	AvailableToBank calendar.Hours

	// Header figures for the report: working-day count and total target.
	WorkingDays   int
	ExpectedHours calendar.Hours
}

// ComputeMonthlyProductivity reduces one user's month. Pure: logs and
// absences are the already-fetched record sets, saved is the month's bank
// row value (zero when absent). Entries dated outside the month are ignored
// so range-padded inputs cannot skew totals.
func ComputeMonthlyProductivity(cal *calendar.WorkCalendar, month calendar.Month, logs []TimeLogEntry, absences []Absence, saved calendar.Hours) MonthlySummary {
	// Bucket logged hours by day; one pass over the entries.
	byDay := make(map[calendar.Date]calendar.Hours)
	for _, l := range logs {
		if !month.Contains(l.Date) {
			continue
		}
		byDay[l.Date] = byDay[l.Date].Add(l.Hours)
	}

	total := calendar.ZeroHours
	raw := calendar.ZeroHours
	for _, day := range month.Days() {
		db := ComputeDailyBalance(cal, day, byDay[day], IsJustified(absences, day))
		total = total.Add(db.LoggedHours)
		raw = raw.Add(db.Balance)
	}

	net := raw.Sub(saved)
	return MonthlySummary{
		Month:                 month,
		TotalHoursLogged:      total,
		RawProductivity:       raw,
		SavedThisMonth:        saved,
		DisplayedProductivity: net,
		AvailableToBank:       net.ClampNonNegative(),
		WorkingDays:           cal.WorkingDays(month.Start(), month.End()),
		ExpectedHours:         cal.ExpectedHoursInMonth(month),
	}
}

// MonthView is the per-day breakdown plus the summary, what the time-log
// calendar page renders.
type MonthView struct {
	UserID  string
	Days    []DailyBalance
	Summary MonthlySummary
}

// BuildMonthView computes every day's balance and the month summary from
// one set of inputs, so the two cannot disagree.
func BuildMonthView(cal *calendar.WorkCalendar, userID string, month calendar.Month, logs []TimeLogEntry, absences []Absence, saved calendar.Hours) MonthView {
	days := make([]DailyBalance, 0, 31)
	for _, day := range month.Days() {
		days = append(days, DayOf(cal, day, logs, absences))
	}
	return MonthView{
		UserID:  userID,
		Days:    days,
		Summary: ComputeMonthlyProductivity(cal, month, logs, absences, saved),
	}
}
