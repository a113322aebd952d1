package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/session"
)

// RequireSession lets the request through only when the browser session holds
// a token. Page requests are redirected to the login page; JSON requests get
// a 401.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			store, ok := session.FromContext(ctx)
			if !ok || !store.IsAuthenticated(ctx) {
				if WantsJSON(c) {
					return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
				}
				return c.Redirect(http.StatusFound, string(domain.DestinationLogin))
			}
			return next(c)
		}
	}
}

// WantsJSON reports whether the client sent or asked for JSON.
func WantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return true
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
