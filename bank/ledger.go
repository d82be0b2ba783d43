/*
Package bank implements the hour-bank ledger: accrual-only transfers of a
month's surplus into a lifetime-accumulating balance.

INVARIANTS:
  1. One row per (user, month); repeated transfers increment the same row.
  2. hours_saved only grows, and only through explicit transfer calls.
  3. A transfer never exceeds the month's available surplus — the check and
     the write happen under a per-(user, month) critical section, and the
     storage increment itself is a single atomic upsert, so two concurrent
     transfers cannot both pass the same availability check.
  4. No withdrawal operation exists.

The reference behavior read availableToBank and then wrote the row in two
steps, which over-credits under concurrency; the keyed lock here closes
that race.

SEE ALSO:
  - productivity: computes AvailableToBank, the transfer bound
  - store/sqlite: the atomic hour_bank upsert
*/
package bank

import (
	"context"
	"sync"

	"github.com/roldanhc-acho/appdspi/calendar"
	"github.com/roldanhc-acho/appdspi/productivity"
)

// =============================================================================
// STORE - Write surface
// =============================================================================

// Store is the write surface the ledger needs on top of the read store.
type Store interface {
	productivity.Store

	// UpsertBankEntry adds delta to the (user, month) row, creating it on
	// first transfer. The increment must be atomic at the storage layer.
	UpsertBankEntry(ctx context.Context, userID string, month calendar.Month, delta calendar.Hours) error
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger validates and records transfers and answers lifetime totals.
type Ledger struct {
	store    Store
	producer *productivity.Service

	mu    sync.Mutex
	locks map[transferKey]*sync.Mutex
}

type transferKey struct {
	UserID string
	Month  calendar.Month
}

func NewLedger(store Store, producer *productivity.Service) *Ledger {
	return &Ledger{
		store:    store,
		producer: producer,
		locks:    make(map[transferKey]*sync.Mutex),
	}
}

// lockFor returns the mutex guarding one (user, month) transfer scope.
func (l *Ledger) lockFor(userID string, month calendar.Month) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := transferKey{UserID: userID, Month: month}
	if l.locks[k] == nil {
		l.locks[k] = &sync.Mutex{}
	}
	return l.locks[k]
}

// Transfer moves amount hours from the month's available surplus into the
// ledger. The availability is recomputed inside the critical section, so a
// concurrent transfer that already consumed the surplus fails validation
// here instead of over-crediting.
//
// Returns *productivity.TransferError when amount is not positive or
// exceeds the available surplus; nothing is written in that case.
func (l *Ledger) Transfer(ctx context.Context, userID string, month calendar.Month, amount calendar.Hours) error {
	lock := l.lockFor(userID, month)
	lock.Lock()
	defer lock.Unlock()

	view, err := l.producer.MonthFor(ctx, userID, month)
	if err != nil {
		return err
	}
	available := view.Summary.AvailableToBank

	if !amount.IsPositive() {
		return &productivity.TransferError{
			UserID: userID, Month: month,
			Requested: amount, Available: available,
			Reason: "non_positive_amount",
		}
	}
	if amount.GreaterThan(available) {
		return &productivity.TransferError{
			UserID: userID, Month: month,
			Requested: amount, Available: available,
			Reason: "exceeds_available",
		}
	}

	return l.store.UpsertBankEntry(ctx, userID, month, amount)
}

// LifetimeTotal sums hours_saved across all of a user's months. The figure
// is monotonically non-decreasing; no correction path exists in scope.
func (l *Ledger) LifetimeTotal(ctx context.Context, userID string) (calendar.Hours, error) {
	entries, err := l.store.BankEntries(ctx, userID)
	if err != nil {
		return calendar.ZeroHours, &productivity.DataUnavailableError{Section: "bank", Err: err}
	}
	total := calendar.ZeroHours
	for _, e := range entries {
		total = total.Add(e.HoursSaved)
	}
	return total, nil
}

// Entries returns the user's per-month rows, newest month first.
func (l *Ledger) Entries(ctx context.Context, userID string) ([]productivity.BankEntry, error) {
	entries, err := l.store.BankEntries(ctx, userID)
	if err != nil {
		return nil, &productivity.DataUnavailableError{Section: "bank", Err: err}
	}
	return entries, nil
}
