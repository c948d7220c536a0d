package domain

import (
	"testing"
	"time"
)

func TestDayStateTransitions(t *testing.T) {
	cases := []struct {
		from    DayState
		want    DayState
		allowed bool
	}{
		{StateAbsent, StateCheckedIn, true},
		{StateCheckedIn, StateCheckedOut, true},
		{StateCheckedOut, "", false},
	}
	for _, tc := range cases {
		got, ok := tc.from.Next()
		if ok != tc.allowed {
			t.Errorf("%s: allowed = %v, want %v", tc.from, ok, tc.allowed)
		}
		if ok && got != tc.want {
			t.Errorf("%s: next = %s, want %s", tc.from, got, tc.want)
		}
	}
}

func TestRecordStateDerivation(t *testing.T) {
	var missing *AttendanceRecord
	if missing.State() != StateAbsent {
		t.Errorf("nil record state = %s, want absent", missing.State())
	}

	rec := &AttendanceRecord{CheckInTime: time.Now()}
	if rec.State() != StateCheckedIn {
		t.Errorf("open record state = %s, want checked_in", rec.State())
	}

	out := time.Now()
	rec.CheckOutTime = &out
	if rec.State() != StateCheckedOut {
		t.Errorf("closed record state = %s, want checked_out", rec.State())
	}
}

func TestNormalizeEmployeeCode(t *testing.T) {
	cases := map[string]string{
		" emp-001 ": "EMP-001",
		"EMP-001":   "EMP-001",
		"  ":        "",
	}
	for in, want := range cases {
		if got := NormalizeEmployeeCode(in); got != want {
			t.Errorf("NormalizeEmployeeCode(%q) = %q, want %q", in, got, want)
		}
	}
}
