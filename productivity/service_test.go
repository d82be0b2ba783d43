package productivity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roldanhc-acho/appdspi/calendar"
	"github.com/roldanhc-acho/appdspi/productivity"
	"github.com/roldanhc-acho/appdspi/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService() (*productivity.Service, *memory.Store) {
	store := memory.New()
	return productivity.NewService(store, calendar.Default()), store
}

// =============================================================================
// MONTH VIEW TESTS
// =============================================================================

func TestService_MonthFor_ComputesFromAllSections(t *testing.T) {
	// GIVEN: Logs, an approved absence, and a bank row for the month
	// WHEN: Loading the month view
	// THEN: The summary reflects all three inputs

	svc, store := newTestService()
	ctx := context.Background()

	cal := calendar.Default()
	for _, l := range fullMonthLogs(cal, "u1", march2026) {
		store.AddTimeLog(l)
	}
	store.AddTimeLog(productivity.TimeLogEntry{
		ID: "extra", UserID: "u1",
		Date:  calendar.MustParseDate("2026-03-10"),
		Hours: calendar.HoursFromInt(8),
	})
	require.NoError(t, store.UpsertBankEntry(ctx, "u1", march2026, calendar.HoursFromInt(5)))

	view, err := svc.MonthFor(ctx, "u1", march2026)
	require.NoError(t, err)

	assert.True(t, view.Summary.RawProductivity.Equal(calendar.HoursFromInt(8)))
	assert.True(t, view.Summary.SavedThisMonth.Equal(calendar.HoursFromInt(5)))
	assert.True(t, view.Summary.AvailableToBank.Equal(calendar.HoursFromInt(3)))
	assert.Len(t, view.Days, 31)
}

func TestService_MonthFor_NoBankRowMeansZeroSaved(t *testing.T) {
	// GIVEN: A month with no hour_bank row
	// WHEN: Loading the view
	// THEN: SavedThisMonth is zero, not an error

	svc, _ := newTestService()

	view, err := svc.MonthFor(context.Background(), "u1", march2026)
	require.NoError(t, err)

	assert.True(t, view.Summary.SavedThisMonth.IsZero())
}

func TestService_MonthFor_FailedReadNamesSection(t *testing.T) {
	// GIVEN: A store whose time-log read fails
	// WHEN: Loading the view
	// THEN: DataUnavailable with the failed section; no partial result

	svc, store := newTestService()
	store.TimeLogsErr = errors.New("disk gone")

	_, err := svc.MonthFor(context.Background(), "u1", march2026)

	require.Error(t, err)
	assert.True(t, productivity.IsDataUnavailable(err))
	var du *productivity.DataUnavailableError
	require.ErrorAs(t, err, &du)
	assert.Equal(t, "time_logs", du.Section)
}

func TestService_MonthFor_BankReadFailureIsUnavailable(t *testing.T) {
	svc, store := newTestService()
	store.BankErr = errors.New("locked")

	_, err := svc.MonthFor(context.Background(), "u1", march2026)

	require.Error(t, err)
	var du *productivity.DataUnavailableError
	require.ErrorAs(t, err, &du)
	assert.Equal(t, "bank", du.Section)
}

// =============================================================================
// MONTHLY REPORT TESTS
// =============================================================================

func TestService_MonthlyReport_RowsAndTotals(t *testing.T) {
	// GIVEN: Two active users with different months, one inactive user
	// WHEN: Building the org report
	// THEN: Rows sorted by name, totals sum the rows, inactive excluded

	svc, store := newTestService()
	ctx := context.Background()
	cal := calendar.Default()

	store.AddUser(productivity.User{ID: "u2", Name: "Zoe", Active: true})
	store.AddUser(productivity.User{ID: "u1", Name: "Ana", Active: true})
	store.AddUser(productivity.User{ID: "u3", Name: "Gone", Active: false})

	// Ana: full month plus 8h overtime, 5h banked this month, 2h banked before.
	for _, l := range fullMonthLogs(cal, "u1", march2026) {
		store.AddTimeLog(l)
	}
	store.AddTimeLog(productivity.TimeLogEntry{
		ID: "ana-extra", UserID: "u1",
		Date:  calendar.MustParseDate("2026-03-10"),
		Hours: calendar.HoursFromInt(8),
	})
	require.NoError(t, store.UpsertBankEntry(ctx, "u1", march2026, calendar.HoursFromInt(5)))
	require.NoError(t, store.UpsertBankEntry(ctx, "u1", march2026.Prev(), calendar.HoursFromInt(2)))

	// Zoe: one approved absence day, nothing else.
	store.AddAbsence(productivity.Absence{
		ID: "zoe-away", UserID: "u2",
		Start:  calendar.MustParseDate("2026-03-10"),
		End:    calendar.MustParseDate("2026-03-10"),
		Status: productivity.AbsenceApproved,
	})

	report, err := svc.MonthlyReport(ctx, march2026)
	require.NoError(t, err)

	require.Len(t, report.Users, 2)
	assert.Equal(t, "Ana", report.Users[0].User.Name)
	assert.Equal(t, "Zoe", report.Users[1].User.Name)

	ana := report.Users[0]
	assert.True(t, ana.Summary.DisplayedProductivity.Equal(calendar.HoursFromInt(3)))
	assert.True(t, ana.BankTotal.Equal(calendar.HoursFromInt(7)), "lifetime spans months")

	zoe := report.Users[1]
	assert.True(t, zoe.AbsenceHours.Equal(calendar.HoursFromInt(9)))
	assert.True(t, zoe.Summary.RawProductivity.Equal(calendar.HoursFromInt(-180)), "credit offsets one of 21 working days")

	assert.True(t, report.Totals.HoursLogged.Equal(ana.Summary.TotalHoursLogged))
	assert.True(t, report.Totals.Productivity.Equal(
		ana.Summary.DisplayedProductivity.Add(zoe.Summary.DisplayedProductivity)))
	assert.True(t, report.Totals.BankTotal.Equal(calendar.HoursFromInt(7)))
}

func TestService_MonthlyReport_UserReadFailure(t *testing.T) {
	svc, store := newTestService()
	store.UsersErr = errors.New("down")

	_, err := svc.MonthlyReport(context.Background(), march2026)

	require.Error(t, err)
	var du *productivity.DataUnavailableError
	require.ErrorAs(t, err, &du)
	assert.Equal(t, "users", du.Section)
}

func TestService_MonthlyReport_EmptyOrg(t *testing.T) {
	// GIVEN: No users at all
	// WHEN: Building the report
	// THEN: Empty rows and zero totals, not an error

	svc, _ := newTestService()

	report, err := svc.MonthlyReport(context.Background(), march2026)
	require.NoError(t, err)

	assert.Empty(t, report.Users)
	assert.True(t, report.Totals.HoursLogged.IsZero())
}
