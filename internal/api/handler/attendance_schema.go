package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// markAttendanceRequest carries the raw face descriptor captured in-browser.
type markAttendanceRequest struct {
	Descriptor []float64 `json:"descriptor" validate:"required,min=1"`
}

type markAttendanceResponse struct {
	Type         string     `json:"type"` // CHECK_IN or CHECK_OUT
	Name         string     `json:"name"`
	EmployeeCode string     `json:"employee_code"`
	Date         string     `json:"date"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	Confidence   float64    `json:"confidence"`
}

// registerIdentityRequest carries a new employee's display data and 1–5
// reference descriptors. Extra descriptors beyond 5 are accepted and dropped
// server-side, so no max tag on the slice.
type registerIdentityRequest struct {
	Name         string      `json:"name"          validate:"required"`
	EmployeeCode string      `json:"employee_code" validate:"required"`
	Descriptors  [][]float64 `json:"descriptors"   validate:"required,min=1,dive,min=1"`
}

type registerIdentityResponse struct {
	IdentityID   string `json:"identity_id"`
	EmployeeCode string `json:"employee_code"`
	Descriptors  int    `json:"descriptors"`
}

// attendanceRecordResponse is one denormalized row in the list endpoint.
type attendanceRecordResponse struct {
	Name         string     `json:"name"`
	EmployeeCode string     `json:"employee_code"`
	Date         string     `json:"date"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	Confidence   float64    `json:"confidence"`
}

type listAttendanceResponse struct {
	Data []attendanceRecordResponse `json:"data"`
}
