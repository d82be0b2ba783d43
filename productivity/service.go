package productivity

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/roldanhc-acho/appdspi/calendar"
)

// =============================================================================
// SERVICE - Fetch fan-out + reduction
// =============================================================================

// Service binds the pure computations to the persistence collaborator and
// the configured work calendar.
type Service struct {
	store Store
	cal   *calendar.WorkCalendar
}

func NewService(store Store, cal *calendar.WorkCalendar) *Service {
	return &Service{store: store, cal: cal}
}

// Calendar returns the calendar the service computes against.
func (s *Service) Calendar() *calendar.WorkCalendar { return s.cal }

// MonthFor loads one user's month and reduces it to a MonthView. The three
// reads are independent, so they run concurrently and join before the
// reduction. Any failed read aborts with a DataUnavailableError naming the
// section; partial inputs are never reduced as if they were complete.
func (s *Service) MonthFor(ctx context.Context, userID string, month calendar.Month) (MonthView, error) {
	var (
		logs     []TimeLogEntry
		absences []Absence
		entry    *BankEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if logs, err = s.store.TimeLogs(gctx, userID, month.Start(), month.End()); err != nil {
			return &DataUnavailableError{Section: "time_logs", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if absences, err = s.store.ApprovedAbsences(gctx, userID, month.Start(), month.End()); err != nil {
			return &DataUnavailableError{Section: "absences", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if entry, err = s.store.BankEntry(gctx, userID, month); err != nil {
			return &DataUnavailableError{Section: "bank", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return MonthView{}, err
	}

	saved := calendar.ZeroHours
	if entry != nil {
		saved = entry.HoursSaved
	}
	return BuildMonthView(s.cal, userID, month, logs, absences, saved), nil
}

// =============================================================================
// ORG-WIDE MONTHLY REPORT
// =============================================================================

// UserReport is one row of the monthly report.
type UserReport struct {
	User User

	Summary MonthlySummary

	// Hours credited by approved absences on the month's working days.
	AbsenceHours calendar.Hours

	// Lifetime hour-bank total across all months.
	BankTotal calendar.Hours
}

// Report is the org-wide monthly report: one row per active user plus a
// totals row.
type Report struct {
	Month  calendar.Month
	Users  []UserReport
	Totals ReportTotals
}

// ReportTotals aggregates the per-user rows.
type ReportTotals struct {
	HoursLogged  calendar.Hours
	AbsenceHours calendar.Hours
	Productivity calendar.Hours
	BankTotal    calendar.Hours
}

// MonthlyReport builds the report for every active user: fetch each table
// once across the org, group by user, reduce each group with the same
// monthly aggregation used for the single-user view.
func (s *Service) MonthlyReport(ctx context.Context, month calendar.Month) (Report, error) {
	var (
		users       []User
		logs        []TimeLogEntry
		absences    []Absence
		monthBanks  []BankEntry
		fetchedBank map[string][]BankEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if users, err = s.store.ActiveUsers(gctx); err != nil {
			return &DataUnavailableError{Section: "users", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if logs, err = s.store.AllTimeLogs(gctx, month.Start(), month.End()); err != nil {
			return &DataUnavailableError{Section: "time_logs", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if absences, err = s.store.AllApprovedAbsences(gctx, month.Start(), month.End()); err != nil {
			return &DataUnavailableError{Section: "absences", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if monthBanks, err = s.store.AllBankEntries(gctx, month); err != nil {
			return &DataUnavailableError{Section: "bank", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	// Group by user.
	logsByUser := make(map[string][]TimeLogEntry)
	for _, l := range logs {
		logsByUser[l.UserID] = append(logsByUser[l.UserID], l)
	}
	absByUser := make(map[string][]Absence)
	for _, a := range absences {
		absByUser[a.UserID] = append(absByUser[a.UserID], a)
	}
	savedByUser := make(map[string]calendar.Hours)
	for _, b := range monthBanks {
		savedByUser[b.UserID] = savedByUser[b.UserID].Add(b.HoursSaved)
	}

	// Lifetime bank totals, one read per user. Acceptable at this org size;
	// swap for a grouped aggregate query if it ever shows up in a profile.
	fetchedBank = make(map[string][]BankEntry, len(users))
	for _, u := range users {
		entries, err := s.store.BankEntries(ctx, u.ID)
		if err != nil {
			return Report{}, &DataUnavailableError{Section: "bank", Err: err}
		}
		fetchedBank[u.ID] = entries
	}

	report := Report{Month: month}
	for _, u := range users {
		summary := ComputeMonthlyProductivity(s.cal, month, logsByUser[u.ID], absByUser[u.ID], savedByUser[u.ID])

		lifetime := calendar.ZeroHours
		for _, b := range fetchedBank[u.ID] {
			lifetime = lifetime.Add(b.HoursSaved)
		}

		row := UserReport{
			User:         u,
			Summary:      summary,
			AbsenceHours: absenceHoursIn(s.cal, month, absByUser[u.ID]),
			BankTotal:    lifetime,
		}
		report.Users = append(report.Users, row)

		report.Totals.HoursLogged = report.Totals.HoursLogged.Add(summary.TotalHoursLogged)
		report.Totals.AbsenceHours = report.Totals.AbsenceHours.Add(row.AbsenceHours)
		report.Totals.Productivity = report.Totals.Productivity.Add(summary.DisplayedProductivity)
		report.Totals.BankTotal = report.Totals.BankTotal.Add(lifetime)
	}

	sort.Slice(report.Users, func(i, j int) bool {
		return report.Users[i].User.Name < report.Users[j].User.Name
	})
	return report, nil
}

// absenceHoursIn totals the full-day credits approved absences grant on the
// month's working days.
func absenceHoursIn(cal *calendar.WorkCalendar, month calendar.Month, absences []Absence) calendar.Hours {
	total := calendar.ZeroHours
	for _, day := range month.Days() {
		if cal.IsNonWorkingDay(day) {
			continue
		}
		if IsJustified(absences, day) {
			total = total.Add(cal.ExpectedHours(day))
		}
	}
	return total
}
