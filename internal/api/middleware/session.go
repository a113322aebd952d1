package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartcampus/campus-portal/internal/core/ports"
	"github.com/smartcampus/campus-portal/internal/core/session"
)

// CookieConfig names the browser-session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

const DefaultCookieName = "campus_sid"

// BrowserSession binds every request to a per-browser storage scope and puts
// the resulting session store into the request context. Browsers without a
// valid cookie get a fresh random id.
func BrowserSession(provider ports.StorageProvider, cfg CookieConfig, log zerolog.Logger) echo.MiddlewareFunc {
	if cfg.Name == "" {
		cfg.Name = DefaultCookieName
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(cfg.Name); err == nil {
				if id, err := uuid.Parse(ck.Value); err == nil {
					sid = id.String()
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cfg.Name,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			store := session.NewStore(provider.Scope(sid), log.With().Str("sid", sid).Logger())
			req := c.Request()
			c.SetRequest(req.WithContext(session.WithStore(req.Context(), store)))
			return next(c)
		}
	}
}
