/*
Package sqlite provides the SQLite-backed persistence collaborator.

PURPOSE:
  Implements the read store the productivity aggregation consumes and the
  hour_bank write surface the ledger needs, plus the CRUD the time-log and
  absence screens use. The same SQL applies to PostgreSQL with minor
  dialect changes.

KEY TABLES:
  users:     accounts with an active flag
  time_logs: one row per reported (user, task, date, hours)
  absences:  leave intervals with a review status
  hour_bank: one row per (user, month), hours_saved increments only

HOUR BANK ATOMICITY:
  UpsertBankEntry is a single INSERT ... ON CONFLICT DO UPDATE with
  hours_saved = hours_saved + delta. The increment happens inside the
  database, so concurrent transfers that both pass validation still cannot
  lose an update; the availability check itself is serialized one level up
  by the ledger's per-(user, month) lock.

DATE HANDLING:
  Dates are stored as YYYY-MM-DD text and months as YYYY-MM text. Date
  columns never carry a time-of-day, which keeps range predicates plain
  string comparisons and removes the timezone-shift class of bugs the
  reference system worked around.

WAL MODE:
  The database is opened with WAL so readers do not block the writer.

USAGE:
  store, err := sqlite.New("./data/appdspi.db")
  defer store.Close()

SEE ALSO:
  - productivity: the read interface this implements
  - bank: the transfer path over UpsertBankEntry
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roldanhc-acho/appdspi/calendar"
	"github.com/roldanhc-acho/appdspi/productivity"
)

// Store implements productivity.Store and bank.Store over SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS time_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		task_id TEXT,
		date TEXT NOT NULL,            -- YYYY-MM-DD
		hours_worked TEXT NOT NULL,    -- decimal string, >= 0
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_time_logs_user_date
		ON time_logs(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_time_logs_date
		ON time_logs(date);

	CREATE TABLE IF NOT EXISTS absences (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		start_date TEXT NOT NULL,      -- YYYY-MM-DD, inclusive
		end_date TEXT NOT NULL,        -- YYYY-MM-DD, inclusive
		status TEXT NOT NULL DEFAULT 'pending',
		type TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_absences_user
		ON absences(user_id);
	CREATE INDEX IF NOT EXISTS idx_absences_status_range
		ON absences(status, start_date, end_date);

	CREATE TABLE IF NOT EXISTS hour_bank (
		user_id TEXT NOT NULL,
		month TEXT NOT NULL,           -- YYYY-MM
		hours_saved TEXT NOT NULL,     -- decimal string, increments only
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, month)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// USERS
// =============================================================================

// SaveUser upserts a user record.
func (s *Store) SaveUser(ctx context.Context, u productivity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO users (id, name, email, active, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			active = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.Active, now())
	return err
}

// GetUser returns a user by ID, or nil when absent.
func (s *Store) GetUser(ctx context.Context, id string) (*productivity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u productivity.User
	var email sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, active FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Name, &email, &u.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Email = email.String
	return &u, nil
}

// ActiveUsers returns all active users ordered by name.
func (s *Store) ActiveUsers(ctx context.Context) ([]productivity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, active FROM users WHERE active ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []productivity.User
	for rows.Next() {
		var u productivity.User
		var email sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &email, &u.Active); err != nil {
			return nil, err
		}
		u.Email = email.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// =============================================================================
// TIME LOGS
// =============================================================================

// SaveTimeLog inserts or updates a time-log entry.
func (s *Store) SaveTimeLog(ctx context.Context, l productivity.TimeLogEntry) error {
	if l.Hours.IsNegative() {
		return fmt.Errorf("%w: hours_worked must be non-negative", productivity.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO time_logs (id, user_id, task_id, date, hours_worked, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			task_id = excluded.task_id,
			date = excluded.date,
			hours_worked = excluded.hours_worked,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`
	ts := now()
	_, err := s.db.ExecContext(ctx, query,
		l.ID, l.UserID, nullString(l.TaskID), l.Date.String(), l.Hours.String(), l.Notes, ts, ts)
	return err
}

// DeleteTimeLog removes a time-log entry.
func (s *Store) DeleteTimeLog(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM time_logs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("time log %s: %w", id, productivity.ErrNotFound)
	}
	return nil
}

// GetTimeLog returns one entry by ID, or nil when absent.
func (s *Store) GetTimeLog(ctx context.Context, id string) (*productivity.TimeLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs, err := s.queryTimeLogs(ctx, selectTimeLogs+" WHERE id = ?", id)
	if err != nil || len(logs) == 0 {
		return nil, err
	}
	return &logs[0], nil
}

// TimeLogs returns a user's entries with from <= date <= to.
func (s *Store) TimeLogs(ctx context.Context, userID string, from, to calendar.Date) ([]productivity.TimeLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryTimeLogs(ctx,
		selectTimeLogs+" WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date ASC, created_at ASC",
		userID, from.String(), to.String())
}

// AllTimeLogs returns every user's entries in the range, for the report.
func (s *Store) AllTimeLogs(ctx context.Context, from, to calendar.Date) ([]productivity.TimeLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryTimeLogs(ctx,
		selectTimeLogs+" WHERE date >= ? AND date <= ? ORDER BY date ASC, created_at ASC",
		from.String(), to.String())
}

const selectTimeLogs = "SELECT id, user_id, task_id, date, hours_worked, notes FROM time_logs"

func (s *Store) queryTimeLogs(ctx context.Context, query string, args ...any) ([]productivity.TimeLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time logs: %w", err)
	}
	defer rows.Close()

	var logs []productivity.TimeLogEntry
	for rows.Next() {
		var (
			l      productivity.TimeLogEntry
			taskID sql.NullString
			notes  sql.NullString
			date   string
			hours  string
		)
		if err := rows.Scan(&l.ID, &l.UserID, &taskID, &date, &hours, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}
		if l.Date, err = calendar.ParseDate(date); err != nil {
			return nil, err
		}
		if l.Hours, err = calendar.ParseHours(hours); err != nil {
			return nil, err
		}
		l.TaskID = taskID.String
		l.Notes = notes.String
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// =============================================================================
// ABSENCES
// =============================================================================

// SaveAbsence inserts or updates an absence request.
func (s *Store) SaveAbsence(ctx context.Context, a productivity.Absence) error {
	if a.End.Before(a.Start) {
		return fmt.Errorf("%w: absence end before start", productivity.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO absences (id, user_id, start_date, end_date, status, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status,
			type = excluded.type,
			updated_at = excluded.updated_at
	`
	ts := now()
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.Start.String(), a.End.String(), string(a.Status), a.Type, ts, ts)
	return err
}

// SetAbsenceStatus moves an absence through its review lifecycle.
func (s *Store) SetAbsenceStatus(ctx context.Context, id string, status productivity.AbsenceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE absences SET status = ?, updated_at = ? WHERE id = ?",
		string(status), now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("absence %s: %w", id, productivity.ErrNotFound)
	}
	return nil
}

// AbsencesByUser returns all of a user's absences regardless of status,
// newest first, for the review screen.
func (s *Store) AbsencesByUser(ctx context.Context, userID string) ([]productivity.Absence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAbsences(ctx,
		selectAbsences+" WHERE user_id = ? ORDER BY start_date DESC", userID)
}

// ApprovedAbsences returns a user's approved absences overlapping [from, to].
func (s *Store) ApprovedAbsences(ctx context.Context, userID string, from, to calendar.Date) ([]productivity.Absence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAbsences(ctx,
		selectAbsences+` WHERE user_id = ? AND status = 'approved'
			AND end_date >= ? AND start_date <= ?
			ORDER BY start_date ASC`,
		userID, from.String(), to.String())
}

// AllApprovedAbsences returns approved absences overlapping the range for
// every user.
func (s *Store) AllApprovedAbsences(ctx context.Context, from, to calendar.Date) ([]productivity.Absence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAbsences(ctx,
		selectAbsences+` WHERE status = 'approved'
			AND end_date >= ? AND start_date <= ?
			ORDER BY start_date ASC`,
		from.String(), to.String())
}

const selectAbsences = "SELECT id, user_id, start_date, end_date, status, type FROM absences"

func (s *Store) queryAbsences(ctx context.Context, query string, args ...any) ([]productivity.Absence, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var absences []productivity.Absence
	for rows.Next() {
		var (
			a          productivity.Absence
			start, end string
			status     string
			kind       sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.UserID, &start, &end, &status, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		if a.Start, err = calendar.ParseDate(start); err != nil {
			return nil, err
		}
		if a.End, err = calendar.ParseDate(end); err != nil {
			return nil, err
		}
		a.Status = productivity.AbsenceStatus(status)
		a.Type = kind.String
		absences = append(absences, a)
	}
	return absences, rows.Err()
}

// =============================================================================
// HOUR BANK
// =============================================================================

// UpsertBankEntry adds delta to the (user, month) row, creating it on first
// transfer. The increment runs inside the database, so it is atomic even
// without the caller's lock.
func (s *Store) UpsertBankEntry(ctx context.Context, userID string, month calendar.Month, delta calendar.Hours) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// hours_saved is a decimal string; the in-database addition goes
	// through REAL, which is exact for hour-scale quantities, and the
	// value is re-parsed as decimal on every read.
	query := `
		INSERT INTO hour_bank (user_id, month, hours_saved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, month) DO UPDATE SET
			hours_saved = CAST(CAST(hour_bank.hours_saved AS REAL) + CAST(excluded.hours_saved AS REAL) AS TEXT),
			updated_at = excluded.updated_at
	`
	ts := now()
	_, err := s.db.ExecContext(ctx, query,
		userID, month.String(), delta.String(), ts, ts)
	return err
}

// BankEntry returns the (user, month) row, or nil when the user has not
// transferred anything that month.
func (s *Store) BankEntry(ctx context.Context, userID string, month calendar.Month) (*productivity.BankEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.queryBankEntries(ctx,
		selectBank+" WHERE user_id = ? AND month = ?", userID, month.String())
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

// BankEntries returns all of a user's rows, newest month first.
func (s *Store) BankEntries(ctx context.Context, userID string) ([]productivity.BankEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryBankEntries(ctx,
		selectBank+" WHERE user_id = ? ORDER BY month DESC", userID)
}

// AllBankEntries returns every user's row for the month, for the report.
func (s *Store) AllBankEntries(ctx context.Context, month calendar.Month) ([]productivity.BankEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryBankEntries(ctx,
		selectBank+" WHERE month = ?", month.String())
}

const selectBank = "SELECT user_id, month, hours_saved, created_at, updated_at FROM hour_bank"

func (s *Store) queryBankEntries(ctx context.Context, query string, args ...any) ([]productivity.BankEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hour bank: %w", err)
	}
	defer rows.Close()

	var entries []productivity.BankEntry
	for rows.Next() {
		var (
			e                    productivity.BankEntry
			month, hours         string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&e.UserID, &month, &hours, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hour bank row: %w", err)
		}
		if e.Month, err = calendar.ParseMonth(month); err != nil {
			return nil, err
		}
		if e.HoursSaved, err = calendar.ParseHours(normalizeDecimal(hours)); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (tests and demo seeding).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"time_logs", "absences", "hour_bank", "users"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// normalizeDecimal strips the ".0" tail SQLite's REAL-to-TEXT cast
// produces so decimal parsing sees a clean literal.
func normalizeDecimal(s string) string {
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
