/*
errors.go - Error taxonomy for the accounting subsystem

Two recoverable categories:

  1. Validation - a transfer outside the allowed range. Rejected before any
     write; the caller reports the allowed range to the user.
  2. DataUnavailable - a persistence read failed. Surfaced so presentation
     can show "stale/unavailable" instead of fabricated zeros; an empty
     result set is NOT an error, only a failed fetch is.

Domain packages wrap the sentinels with context; callers test with
errors.Is or the helpers below.
*/
package productivity

import (
	"errors"
	"fmt"

	"github.com/roldanhc-acho/appdspi/calendar"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrValidation is the root of transfer-precondition failures.
	ErrValidation = errors.New("validation failed")

	// ErrDataUnavailable means a persistence read failed; the month's
	// numbers could not be computed from complete inputs.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// DataUnavailableError reports which input set failed to load.
type DataUnavailableError struct {
	Section string // "time_logs", "absences", "bank", "users"
	Err     error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Section, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return ErrDataUnavailable }

// TransferError reports a rejected bank transfer along with the allowed
// range so the caller can render updated bounds.
type TransferError struct {
	UserID    string
	Month     calendar.Month
	Requested calendar.Hours
	Available calendar.Hours
	Reason    string // "non_positive_amount", "exceeds_available"
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer rejected (%s): requested %s, available %s for %s %s",
		e.Reason, e.Requested, e.Available, e.UserID, e.Month)
}

func (e *TransferError) Unwrap() error { return ErrValidation }

// =============================================================================
// HELPERS
// =============================================================================

// IsValidation reports a client-recoverable precondition failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsDataUnavailable reports an incomplete-inputs condition. Callers should
// degrade to the last good state rather than display zeros.
func IsDataUnavailable(err error) bool { return errors.Is(err, ErrDataUnavailable) }

// IsNotFound reports a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
