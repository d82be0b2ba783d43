package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roldanhc-acho/appdspi/calendar"
	"github.com/roldanhc-acho/appdspi/productivity"
	"github.com/roldanhc-acho/appdspi/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func tl(id, userID, date string, hours float64) productivity.TimeLogEntry {
	return productivity.TimeLogEntry{
		ID:     id,
		UserID: userID,
		Date:   calendar.MustParseDate(date),
		Hours:  calendar.HoursFromFloat(hours),
	}
}

// =============================================================================
// USER TESTS
// =============================================================================

func TestStore_Users(t *testing.T) {
	// GIVEN: Two active users and one deactivated
	// WHEN: Listing active users
	// THEN: Only the active ones, ordered by name

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, productivity.User{ID: "u2", Name: "Zoe", Email: "z@x.co", Active: true}))
	require.NoError(t, store.SaveUser(ctx, productivity.User{ID: "u1", Name: "Ana", Active: true}))
	require.NoError(t, store.SaveUser(ctx, productivity.User{ID: "u3", Name: "Old", Active: false}))

	users, err := store.ActiveUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ana", users[0].Name)
	assert.Equal(t, "Zoe", users[1].Name)

	u, err := store.GetUser(ctx, "u2")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "z@x.co", u.Email)

	missing, err := store.GetUser(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// =============================================================================
// TIME LOG TESTS
// =============================================================================

func TestStore_TimeLogs_CRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := tl("log-1", "u1", "2026-03-10", 7.5)
	entry.TaskID = "task-9"
	entry.Notes = "code review"
	require.NoError(t, store.SaveTimeLog(ctx, entry))

	got, err := store.GetTimeLog(ctx, "log-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "task-9", got.TaskID)
	assert.Equal(t, "code review", got.Notes)
	assert.True(t, got.Hours.Equal(calendar.HoursFromFloat(7.5)))

	// Upsert rewrites in place.
	entry.Hours = calendar.HoursFromInt(9)
	require.NoError(t, store.SaveTimeLog(ctx, entry))
	got, err = store.GetTimeLog(ctx, "log-1")
	require.NoError(t, err)
	assert.True(t, got.Hours.Equal(calendar.HoursFromInt(9)))

	require.NoError(t, store.DeleteTimeLog(ctx, "log-1"))
	err = store.DeleteTimeLog(ctx, "log-1")
	assert.True(t, productivity.IsNotFound(err), "second delete should report not found")
}

func TestStore_SaveTimeLog_RejectsNegativeHours(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveTimeLog(context.Background(), tl("bad", "u1", "2026-03-10", -1))

	require.Error(t, err)
	assert.True(t, productivity.IsValidation(err))
}

func TestStore_TimeLogs_RangeQuery(t *testing.T) {
	// GIVEN: Entries across a month boundary and a second user
	// WHEN: Querying March for u1
	// THEN: Only u1's March entries come back, inclusive on both ends

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTimeLog(ctx, tl("feb", "u1", "2026-02-28", 9)))
	require.NoError(t, store.SaveTimeLog(ctx, tl("first", "u1", "2026-03-01", 4)))
	require.NoError(t, store.SaveTimeLog(ctx, tl("last", "u1", "2026-03-31", 5)))
	require.NoError(t, store.SaveTimeLog(ctx, tl("apr", "u1", "2026-04-01", 9)))
	require.NoError(t, store.SaveTimeLog(ctx, tl("other", "u2", "2026-03-15", 9)))

	march := calendar.MustParseMonth("2026-03")
	logs, err := store.TimeLogs(ctx, "u1", march.Start(), march.End())
	require.NoError(t, err)
	require.Len(t, logs, 2)

	all, err := store.AllTimeLogs(ctx, march.Start(), march.End())
	require.NoError(t, err)
	assert.Len(t, all, 3, "org-wide read includes every user")
}

// =============================================================================
// ABSENCE TESTS
// =============================================================================

func TestStore_Absences_Lifecycle(t *testing.T) {
	// GIVEN: A pending absence
	// WHEN: Approving it
	// THEN: It starts showing up in approved-absence reads

	store := newTestStore(t)
	ctx := context.Background()

	absence := productivity.Absence{
		ID: "abs-1", UserID: "u1",
		Start:  calendar.MustParseDate("2026-03-10"),
		End:    calendar.MustParseDate("2026-03-12"),
		Status: productivity.AbsencePending,
		Type:   "vacation",
	}
	require.NoError(t, store.SaveAbsence(ctx, absence))

	march := calendar.MustParseMonth("2026-03")
	approved, err := store.ApprovedAbsences(ctx, "u1", march.Start(), march.End())
	require.NoError(t, err)
	assert.Empty(t, approved, "pending must not justify")

	require.NoError(t, store.SetAbsenceStatus(ctx, "abs-1", productivity.AbsenceApproved))

	approved, err = store.ApprovedAbsences(ctx, "u1", march.Start(), march.End())
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, productivity.AbsenceApproved, approved[0].Status)
	assert.Equal(t, "vacation", approved[0].Type)

	err = store.SetAbsenceStatus(ctx, "nope", productivity.AbsenceRejected)
	assert.True(t, productivity.IsNotFound(err))
}

func TestStore_SaveAbsence_RejectsInvertedRange(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveAbsence(context.Background(), productivity.Absence{
		ID: "bad", UserID: "u1",
		Start:  calendar.MustParseDate("2026-03-12"),
		End:    calendar.MustParseDate("2026-03-10"),
		Status: productivity.AbsencePending,
	})

	require.Error(t, err)
	assert.True(t, productivity.IsValidation(err))
}

func TestStore_ApprovedAbsences_OverlapNotContainment(t *testing.T) {
	// GIVEN: An approved absence spanning the Feb/Mar boundary
	// WHEN: Querying either month
	// THEN: The absence surfaces in both

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAbsence(ctx, productivity.Absence{
		ID: "span", UserID: "u1",
		Start:  calendar.MustParseDate("2026-02-25"),
		End:    calendar.MustParseDate("2026-03-03"),
		Status: productivity.AbsenceApproved,
	}))

	feb := calendar.MustParseMonth("2026-02")
	march := calendar.MustParseMonth("2026-03")

	inFeb, err := store.ApprovedAbsences(ctx, "u1", feb.Start(), feb.End())
	require.NoError(t, err)
	assert.Len(t, inFeb, 1)

	inMarch, err := store.ApprovedAbsences(ctx, "u1", march.Start(), march.End())
	require.NoError(t, err)
	assert.Len(t, inMarch, 1)

	april := calendar.MustParseMonth("2026-04")
	inApril, err := store.ApprovedAbsences(ctx, "u1", april.Start(), april.End())
	require.NoError(t, err)
	assert.Empty(t, inApril)
}

// =============================================================================
// HOUR BANK TESTS
// =============================================================================

func TestStore_BankEntry_UpsertIncrements(t *testing.T) {
	// GIVEN: An empty bank
	// WHEN: Upserting twice for the same (user, month)
	// THEN: A single row holds the running sum

	store := newTestStore(t)
	ctx := context.Background()
	march := calendar.MustParseMonth("2026-03")

	entry, err := store.BankEntry(ctx, "u1", march)
	require.NoError(t, err)
	assert.Nil(t, entry, "no row before the first transfer")

	require.NoError(t, store.UpsertBankEntry(ctx, "u1", march, calendar.HoursFromFloat(2.5)))
	require.NoError(t, store.UpsertBankEntry(ctx, "u1", march, calendar.HoursFromInt(3)))

	entry, err = store.BankEntry(ctx, "u1", march)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.HoursSaved.Equal(calendar.HoursFromFloat(5.5)))

	entries, err := store.BankEntries(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_BankEntries_OrderAndMonthFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	feb := calendar.MustParseMonth("2026-02")
	march := calendar.MustParseMonth("2026-03")

	require.NoError(t, store.UpsertBankEntry(ctx, "u1", feb, calendar.HoursFromInt(2)))
	require.NoError(t, store.UpsertBankEntry(ctx, "u1", march, calendar.HoursFromInt(4)))
	require.NoError(t, store.UpsertBankEntry(ctx, "u2", march, calendar.HoursFromInt(1)))

	entries, err := store.BankEntries(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-03", entries[0].Month.String(), "newest month first")
	assert.Equal(t, "2026-02", entries[1].Month.String())

	inMarch, err := store.AllBankEntries(ctx, march)
	require.NoError(t, err)
	assert.Len(t, inMarch, 2, "both users transferred in March")
}

// =============================================================================
// UTILITY TESTS
// =============================================================================

func TestStore_Reset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, productivity.User{ID: "u1", Name: "Ana", Active: true}))
	require.NoError(t, store.SaveTimeLog(ctx, tl("l1", "u1", "2026-03-10", 9)))

	require.NoError(t, store.Reset(ctx))

	users, err := store.ActiveUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
