package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/facetrack/attendance-system/internal/core/domain"
)

// RequireRole lets the request through only when the role injected by Auth is
// one of the given roles. The admin manages identities and reads reports; the
// kiosk terminal may only mark attendance.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
