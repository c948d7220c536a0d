package ports

import (
	"context"
	"time"

	"github.com/facetrack/attendance-system/internal/core/domain"
)

// MarkAttendanceInput carries the raw descriptor captured by the client.
type MarkAttendanceInput struct {
	Descriptor domain.Descriptor
}

// MarkAttendanceResult describes the transition a successful mark performed.
type MarkAttendanceResult struct {
	Type         domain.MarkType
	DisplayName  string
	EmployeeCode string
	Date         string
	CheckInTime  time.Time
	CheckOutTime *time.Time
	// Confidence is the match distance rounded to 4 decimal places
	// (lower = more similar).
	Confidence float64
}

// RegisterIdentityInput carries the data for a new identity. Descriptors
// beyond the capacity bound are truncated, not rejected.
type RegisterIdentityInput struct {
	DisplayName  string
	EmployeeCode string
	Descriptors  []domain.Descriptor
}

// RegisterIdentityResult returns the new identity's handle.
type RegisterIdentityResult struct {
	IdentityID   string
	EmployeeCode string
	Descriptors  int
}

// ListAttendanceInput carries the optional list filters.
type ListAttendanceInput struct {
	Date         string
	EmployeeCode string
	Limit        int
}

// AttendanceRecordView is a denormalized record joined with identity
// display fields.
type AttendanceRecordView struct {
	DisplayName  string
	EmployeeCode string
	Date         string
	CheckInTime  time.Time
	CheckOutTime *time.Time
	Confidence   float64
}

// AttendanceService defines the use-case operations of the system.
type AttendanceService interface {
	// MarkAttendance identifies the person behind the descriptor and drives
	// the day state machine: absent → check-in, checked-in → check-out,
	// checked-out → domain.ErrDayCompleted.
	MarkAttendance(ctx context.Context, input MarkAttendanceInput) (*MarkAttendanceResult, error)

	// RegisterIdentity creates a new identity after rejecting duplicate
	// employee codes and faces already registered under another code.
	RegisterIdentity(ctx context.Context, input RegisterIdentityInput) (*RegisterIdentityResult, error)

	// ListAttendance returns denormalized records, most recent first.
	ListAttendance(ctx context.Context, input ListAttendanceInput) ([]AttendanceRecordView, error)

	// DeactivateIdentity removes an identity from the candidate set without
	// deleting it or its attendance history.
	DeactivateIdentity(ctx context.Context, employeeCode string) error
}
