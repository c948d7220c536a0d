package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/facetrack/attendance-system/internal/core/domain"
)

func runRequireRole(t *testing.T, role interface{}, allowed ...string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set(ContextRole, role)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return RequireRole(allowed...)(next)(c)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	if err := runRequireRole(t, domain.RoleAdmin, domain.RoleKiosk, domain.RoleAdmin); err != nil {
		t.Errorf("listed role rejected: %v", err)
	}
}

func TestRequireRoleForbidsUnlistedRole(t *testing.T) {
	err := runRequireRole(t, domain.RoleKiosk, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestRequireRoleForbidsMissingRole(t *testing.T) {
	err := runRequireRole(t, nil, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}
