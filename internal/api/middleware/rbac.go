package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/session"
)

// RequireRole guards a role dashboard. A user with another role is sent to
// their own dashboard; a user whose role is unknown is sent to the login page.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			store, ok := session.FromContext(ctx)
			if !ok {
				return c.Redirect(http.StatusFound, string(domain.DestinationLogin))
			}

			actual := store.Snapshot(ctx).Role()
			if domain.Role(actual) != role {
				return c.Redirect(http.StatusFound, string(domain.DashboardFor(actual)))
			}
			return next(c)
		}
	}
}
