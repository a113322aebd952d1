package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/session"
)

// ctxStore returns the browser session bound by the BrowserSession
// middleware. Its absence means the route was mounted without it.
func ctxStore(c echo.Context) (*session.Store, error) {
	store, ok := session.FromContext(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return store, nil
}

// StatusFor maps an error to the HTTP status the portal answers with.
func StatusFor(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case domain.KindValidation:
			return http.StatusBadRequest
		case domain.KindNetwork, domain.KindProtocol:
			return http.StatusBadGateway
		case domain.KindServer:
			if apiErr.Status >= 400 && apiErr.Status < 600 {
				return apiErr.Status
			}
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}
