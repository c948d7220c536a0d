package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/facetrack/attendance-system/internal/api/metrics"
	"github.com/facetrack/attendance-system/internal/core/domain"
	"github.com/facetrack/attendance-system/internal/core/ports"
)

// IdentityHandler handles HTTP requests for identity enrollment.
type IdentityHandler struct {
	service ports.AttendanceService
}

func NewIdentityHandler(service ports.AttendanceService) *IdentityHandler {
	return &IdentityHandler{service: service}
}

// Register handles POST /v1/identities.
//
// @Summary      Register a new employee identity with face descriptors
// @Tags         identities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerIdentityRequest  true  "Identity details"
// @Success      201   {object}  registerIdentityResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/identities [post]
func (h *IdentityHandler) Register(c echo.Context) error {
	var req registerIdentityRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	descriptors := make([]domain.Descriptor, len(req.Descriptors))
	for i, d := range req.Descriptors {
		descriptors[i] = domain.Descriptor(d)
	}

	result, err := h.service.RegisterIdentity(c.Request().Context(), ports.RegisterIdentityInput{
		DisplayName:  req.Name,
		EmployeeCode: req.EmployeeCode,
		Descriptors:  descriptors,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerOutcome(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, registerIdentityResponse{
		IdentityID:   result.IdentityID,
		EmployeeCode: result.EmployeeCode,
		Descriptors:  result.Descriptors,
	})
}

// Deactivate handles DELETE /v1/identities/:code.
//
// @Summary      Deactivate an identity (removes it from matching, keeps history)
// @Tags         identities
// @Produce      json
// @Security     BearerAuth
// @Param        code  path  string  true  "Employee code"
// @Success      204
// @Failure      404   {object}  errorResponse
// @Router       /v1/identities/{code} [delete]
func (h *IdentityHandler) Deactivate(c echo.Context) error {
	if err := h.service.DeactivateIdentity(c.Request().Context(), c.Param("code")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// registerOutcome labels a registration failure for metrics.
func registerOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmployeeCode):
		return "duplicate_code"
	case errors.Is(err, domain.ErrDuplicateFace):
		return "duplicate_face"
	case errors.Is(err, domain.ErrInvalidDescriptor), errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
