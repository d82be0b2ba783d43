// Package memory provides an in-memory store for tests and development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/roldanhc-acho/appdspi/calendar"
	"github.com/roldanhc-acho/appdspi/productivity"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// Store is a mutex-guarded in-memory implementation of the read store plus
// the bank write surface. The error fields inject read failures so callers
// can exercise the DataUnavailable paths.
type Store struct {
	mu       sync.RWMutex
	logs     map[string][]productivity.TimeLogEntry // by user
	absences map[string][]productivity.Absence      // by user
	bank     map[bankKey]*productivity.BankEntry
	users    []productivity.User

	TimeLogsErr error
	AbsencesErr error
	BankErr     error
	UsersErr    error
}

type bankKey struct {
	UserID string
	Month  calendar.Month
}

func New() *Store {
	return &Store{
		logs:     make(map[string][]productivity.TimeLogEntry),
		absences: make(map[string][]productivity.Absence),
		bank:     make(map[bankKey]*productivity.BankEntry),
	}
}

// =============================================================================
// SEEDING
// =============================================================================

func (s *Store) AddUser(u productivity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

func (s *Store) AddTimeLog(l productivity.TimeLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[l.UserID] = append(s.logs[l.UserID], l)
}

func (s *Store) AddAbsence(a productivity.Absence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.absences[a.UserID] = append(s.absences[a.UserID], a)
}

// =============================================================================
// READS (productivity.Store)
// =============================================================================

func (s *Store) TimeLogs(_ context.Context, userID string, from, to calendar.Date) ([]productivity.TimeLogEntry, error) {
	if s.TimeLogsErr != nil {
		return nil, s.TimeLogsErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []productivity.TimeLogEntry
	for _, l := range s.logs[userID] {
		if l.Date.AfterOrEqual(from) && l.Date.BeforeOrEqual(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) ApprovedAbsences(_ context.Context, userID string, from, to calendar.Date) ([]productivity.Absence, error) {
	if s.AbsencesErr != nil {
		return nil, s.AbsencesErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []productivity.Absence
	for _, a := range s.absences[userID] {
		if a.Status == productivity.AbsenceApproved && overlaps(a, from, to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) BankEntry(_ context.Context, userID string, month calendar.Month) (*productivity.BankEntry, error) {
	if s.BankErr != nil {
		return nil, s.BankErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.bank[bankKey{UserID: userID, Month: month}]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (s *Store) BankEntries(_ context.Context, userID string) ([]productivity.BankEntry, error) {
	if s.BankErr != nil {
		return nil, s.BankErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []productivity.BankEntry
	for k, e := range s.bank {
		if k.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[j].Month.String() < out[i].Month.String() })
	return out, nil
}

func (s *Store) ActiveUsers(_ context.Context) ([]productivity.User, error) {
	if s.UsersErr != nil {
		return nil, s.UsersErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []productivity.User
	for _, u := range s.users {
		if u.Active {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) AllTimeLogs(_ context.Context, from, to calendar.Date) ([]productivity.TimeLogEntry, error) {
	if s.TimeLogsErr != nil {
		return nil, s.TimeLogsErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []productivity.TimeLogEntry
	for _, logs := range s.logs {
		for _, l := range logs {
			if l.Date.AfterOrEqual(from) && l.Date.BeforeOrEqual(to) {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func (s *Store) AllApprovedAbsences(_ context.Context, from, to calendar.Date) ([]productivity.Absence, error) {
	if s.AbsencesErr != nil {
		return nil, s.AbsencesErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []productivity.Absence
	for _, abs := range s.absences {
		for _, a := range abs {
			if a.Status == productivity.AbsenceApproved && overlaps(a, from, to) {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (s *Store) AllBankEntries(_ context.Context, month calendar.Month) ([]productivity.BankEntry, error) {
	if s.BankErr != nil {
		return nil, s.BankErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []productivity.BankEntry
	for k, e := range s.bank {
		if k.Month == month {
			out = append(out, *e)
		}
	}
	return out, nil
}

// =============================================================================
// BANK WRITE (bank.Store)
// =============================================================================

// UpsertBankEntry increments the (user, month) row under the store lock, so
// the increment is atomic the way the SQL upsert is.
func (s *Store) UpsertBankEntry(_ context.Context, userID string, month calendar.Month, delta calendar.Hours) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	k := bankKey{UserID: userID, Month: month}
	if e, ok := s.bank[k]; ok {
		e.HoursSaved = e.HoursSaved.Add(delta)
		e.UpdatedAt = now
		return nil
	}
	s.bank[k] = &productivity.BankEntry{
		UserID:     userID,
		Month:      month,
		HoursSaved: delta,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return nil
}

func overlaps(a productivity.Absence, from, to calendar.Date) bool {
	return !a.End.Before(from) && !a.Start.After(to)
}
