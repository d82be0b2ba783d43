/*
Package productivity computes daily balances, monthly productivity, and the
org-wide monthly report.

PURPOSE:
  For each user and day, logged hours plus justified-absence credit are
  compared against the workday target to produce a signed balance. Balances
  sum over a month into raw productivity; hours already moved to the hour
  bank are netted out, and whatever surplus remains is "available to bank".

DATA FLOW:
  calendar.WorkCalendar -> ComputeDailyBalance -> ComputeMonthlyProductivity
  -> bank ledger (read) -> presentation. The monthly report reruns the same
  reduction for every active user.

PURITY:
  ComputeDailyBalance and ComputeMonthlyProductivity are pure functions over
  already-fetched data. All I/O lives in Service, which fans out the
  independent reads and joins before reducing. A failed read surfaces as
  DataUnavailableError; it is never silently treated as an empty month.

SEE ALSO:
  - daily.go:   per-day balance rules
  - monthly.go: month reduction
  - service.go: fetch fan-out and the org-wide report
  - bank:       the transfer side of the hour bank
*/
package productivity

import (
	"context"
	"time"

	"github.com/roldanhc-acho/appdspi/calendar"
)

// =============================================================================
// DOMAIN RECORDS
// =============================================================================

// TimeLogEntry is hours a user reported against a task on one calendar day.
// A user may have any number of entries per day (multiple tasks).
type TimeLogEntry struct {
	ID     string
	UserID string
	TaskID string // empty when not tied to a task
	Date   calendar.Date
	Hours  calendar.Hours // non-negative
	Notes  string
}

// AbsenceStatus is the review state of an absence request.
type AbsenceStatus string

const (
	AbsencePending  AbsenceStatus = "pending"
	AbsenceApproved AbsenceStatus = "approved"
	AbsenceRejected AbsenceStatus = "rejected"
)

// Absence is a leave interval, inclusive on both ends. Only approved
// absences participate in balance computation.
type Absence struct {
	ID     string
	UserID string
	Start  calendar.Date
	End    calendar.Date
	Status AbsenceStatus
	Type   string // vacation, sick, personal, ...
}

// Covers reports whether the date lies within the absence interval.
func (a Absence) Covers(d calendar.Date) bool {
	return d.AfterOrEqual(a.Start) && d.BeforeOrEqual(a.End)
}

// IsJustified reports whether any approved absence in the set covers the
// date. Pending and rejected absences never justify a day.
func IsJustified(absences []Absence, d calendar.Date) bool {
	for _, a := range absences {
		if a.Status == AbsenceApproved && a.Covers(d) {
			return true
		}
	}
	return false
}

// User is an account the report iterates over.
type User struct {
	ID     string
	Name   string
	Email  string
	Active bool
}

// BankEntry is one hour_bank row: hours a user transferred from a month's
// surplus. At most one row exists per (user, month); repeated transfers
// increment the same row and it is never decremented by this subsystem.
type BankEntry struct {
	UserID     string
	Month      calendar.Month
	HoursSaved calendar.Hours
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// =============================================================================
// STORE - The persistence collaborator (read side)
// =============================================================================

// Store is the read surface the aggregation needs. Implementations live in
// store/sqlite (production) and store/memory (tests).
type Store interface {
	// TimeLogs returns a user's entries with from <= date <= to.
	TimeLogs(ctx context.Context, userID string, from, to calendar.Date) ([]TimeLogEntry, error)

	// ApprovedAbsences returns a user's approved absences overlapping
	// [from, to]. Overlap, not containment: an absence spanning a month
	// boundary must still justify the days inside the range.
	ApprovedAbsences(ctx context.Context, userID string, from, to calendar.Date) ([]Absence, error)

	// BankEntry returns the (user, month) ledger row, or nil when the user
	// has not transferred anything that month.
	BankEntry(ctx context.Context, userID string, month calendar.Month) (*BankEntry, error)

	// BankEntries returns all of a user's ledger rows, for the lifetime total.
	BankEntries(ctx context.Context, userID string) ([]BankEntry, error)

	// ActiveUsers returns every active account, ordered by name.
	ActiveUsers(ctx context.Context) ([]User, error)

	// Org-wide reads for the monthly report: one query per table instead of
	// one round trip per user.
	AllTimeLogs(ctx context.Context, from, to calendar.Date) ([]TimeLogEntry, error)
	AllApprovedAbsences(ctx context.Context, from, to calendar.Date) ([]Absence, error)
	AllBankEntries(ctx context.Context, month calendar.Month) ([]BankEntry, error)
}
