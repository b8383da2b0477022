package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tohpitoh/portal-gateway/internal/core/domain"
	"github.com/tohpitoh/portal-gateway/internal/core/ports"
)

// RequireSession rejects requests while no authenticated session exists.
func RequireSession(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !sessions.Snapshot().Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access on data routes. Callers list the
// admitted roles explicitly, including the generic-user label on patient
// routes.
func RequireRole(sessions ports.SessionService, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := sessions.Snapshot()
			if !s.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			if _, ok := allowed[s.Profile.User.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
