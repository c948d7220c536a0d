package ports

import (
	"context"
	"time"

	"github.com/facetrack/attendance-system/internal/core/domain"
)

// ListRecordsFilter carries the optional query parameters for listing
// attendance records.
type ListRecordsFilter struct {
	Date       string // optional: exact calendar date (YYYY-MM-DD)
	IdentityID string // optional: scoped to one identity
	Limit      int    // max rows (capped at 500 by the service)
}

// AttendanceRepository is the ledger store. The uniqueness of
// (identity_id, date) and the set-once nature of the checkout field are
// physical invariants of the storage layer, not application-level checks.
type AttendanceRepository interface {
	// Find retrieves the record for (identityID, date).
	// Returns domain.ErrRecordNotFound when the identity is absent that day.
	Find(ctx context.Context, identityID, date string) (*domain.AttendanceRecord, error)

	// Create inserts the day's record (the check-in). Losing a concurrent
	// race on the unique (identity_id, date) index is reported as
	// domain.ErrRecordConflict.
	Create(ctx context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error)

	// SetCheckout sets the checkout time, conditional on it being currently
	// unset. Returns domain.ErrRecordConflict when another caller already
	// checked the record out.
	SetCheckout(ctx context.Context, recordID string, at time.Time) (*domain.AttendanceRecord, error)

	// List returns records matching filter, most recent first. The service
	// layer joins them with identity display fields.
	List(ctx context.Context, filter ListRecordsFilter) ([]domain.AttendanceRecord, error)
}
