package domain

import (
	"errors"
	"time"
)

// DayState represents where an identity sits in the daily attendance
// lifecycle for a given calendar date.
type DayState string

const (
	StateAbsent     DayState = "absent"
	StateCheckedIn  DayState = "checked_in"
	StateCheckedOut DayState = "checked_out"
)

// nextState defines the allowed state machine transitions. CheckedOut is
// terminal for the day; it has no entry.
var nextState = map[DayState]DayState{
	StateAbsent:    StateCheckedIn,
	StateCheckedIn: StateCheckedOut,
}

var ErrDayCompleted = errors.New("attendance already completed for today")

// ErrMarkedRecently rejects a mark arriving inside the cooldown window after
// a successful transition, so a kiosk streaming frames does not check a
// person out seconds after their check-in.
var ErrMarkedRecently = errors.New("attendance marked moments ago")
var ErrNotRecognized = errors.New("face not recognized")
var ErrRecordNotFound = errors.New("attendance record not found")

// ErrRecordConflict signals a lost race against a concurrent writer on the
// same (identity, date) record. Callers recover by re-reading current state;
// it must never surface to the client.
var ErrRecordConflict = errors.New("attendance record conflict")

// Next returns the state a mark call transitions to, or false when the day
// is already completed.
func (s DayState) Next() (DayState, bool) {
	n, ok := nextState[s]
	return n, ok
}

// MarkType labels the transition a successful mark performed.
type MarkType string

const (
	MarkCheckIn  MarkType = "CHECK_IN"
	MarkCheckOut MarkType = "CHECK_OUT"
)

// AttendanceRecord is the per-identity, per-day ledger entry. At most one
// exists per (IdentityID, Date); the storage layer enforces that with a
// unique compound index. CheckOutTime is set at most once and is immutable
// afterwards.
type AttendanceRecord struct {
	ID              string     `json:"id" bson:"_id,omitempty"`
	IdentityID      string     `json:"identity_id" bson:"identity_id"`
	Date            string     `json:"date" bson:"date"` // YYYY-MM-DD
	CheckInTime     time.Time  `json:"check_in_time" bson:"check_in_time"`
	CheckOutTime    *time.Time `json:"check_out_time,omitempty" bson:"check_out_time,omitempty"`
	MatchConfidence float64    `json:"match_confidence" bson:"match_confidence"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
}

// State derives the day state from the record. A nil record means absent.
func (r *AttendanceRecord) State() DayState {
	if r == nil {
		return StateAbsent
	}
	if r.CheckOutTime != nil {
		return StateCheckedOut
	}
	return StateCheckedIn
}

// AttendanceEvent is the audit entry emitted after every successful mark.
type AttendanceEvent struct {
	IdentityID   string
	EmployeeCode string
	Type         MarkType
	Date         string
	Timestamp    time.Time
	Distance     float64
}
