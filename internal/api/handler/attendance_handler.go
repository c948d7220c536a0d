package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/facetrack/attendance-system/internal/api/metrics"
	"github.com/facetrack/attendance-system/internal/core/domain"
	"github.com/facetrack/attendance-system/internal/core/ports"
)

// AttendanceHandler handles HTTP requests for attendance operations.
type AttendanceHandler struct {
	service ports.AttendanceService
}

func NewAttendanceHandler(service ports.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// Mark handles POST /v1/attendance.
//
// @Summary      Mark attendance by face descriptor
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      markAttendanceRequest  true  "Face descriptor"
// @Success      200   {object}  markAttendanceResponse  "check-out"
// @Success      201   {object}  markAttendanceResponse  "check-in"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /v1/attendance [post]
func (h *AttendanceHandler) Mark(c echo.Context) error {
	var req markAttendanceRequest
	if err := c.Bind(&req); err != nil {
		metrics.MarksTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.MarksTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.MarkAttendance(c.Request().Context(), ports.MarkAttendanceInput{
		Descriptor: domain.Descriptor(req.Descriptor),
	})
	if err != nil {
		metrics.MarksTotal.WithLabelValues(markOutcome(err)).Inc()
		return err
	}

	metrics.MatchDistance.Observe(result.Confidence)
	status := http.StatusOK
	if result.Type == domain.MarkCheckIn {
		metrics.MarksTotal.WithLabelValues("check_in").Inc()
		status = http.StatusCreated
	} else {
		metrics.MarksTotal.WithLabelValues("check_out").Inc()
	}

	return c.JSON(status, markAttendanceResponse{
		Type:         string(result.Type),
		Name:         result.DisplayName,
		EmployeeCode: result.EmployeeCode,
		Date:         result.Date,
		CheckInTime:  result.CheckInTime,
		CheckOutTime: result.CheckOutTime,
		Confidence:   result.Confidence,
	})
}

// List handles GET /v1/attendance.
//
// @Summary      List attendance records, most recent first
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        date   query     string  false  "Calendar date filter (YYYY-MM-DD)"
// @Param        code   query     string  false  "Employee code filter"
// @Param        limit  query     int     false  "Max rows (default 100, cap 500)"
// @Success      200    {object}  listAttendanceResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/attendance [get]
func (h *AttendanceHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	views, err := h.service.ListAttendance(c.Request().Context(), ports.ListAttendanceInput{
		Date:         c.QueryParam("date"),
		EmployeeCode: c.QueryParam("code"),
		Limit:        limit,
	})
	if err != nil {
		return err
	}

	data := make([]attendanceRecordResponse, 0, len(views))
	for _, v := range views {
		data = append(data, attendanceRecordResponse{
			Name:         v.DisplayName,
			EmployeeCode: v.EmployeeCode,
			Date:         v.Date,
			CheckInTime:  v.CheckInTime,
			CheckOutTime: v.CheckOutTime,
			Confidence:   v.Confidence,
		})
	}
	return c.JSON(http.StatusOK, listAttendanceResponse{Data: data})
}

// markOutcome labels a mark failure for metrics.
func markOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotRecognized):
		return "not_recognized"
	case errors.Is(err, domain.ErrDayCompleted):
		return "day_completed"
	case errors.Is(err, domain.ErrMarkedRecently):
		return "cooldown"
	case errors.Is(err, domain.ErrInvalidDescriptor), errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
