package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/session"
)

// PageHandler serves the landing redirect, the role dashboards and the
// session status endpoint.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// tokenView is the display-only view of the bearer token.
type tokenView struct {
	Subject   string    `json:"subject,omitempty"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Expired   bool      `json:"expired"`
}

func inspect(token string) *tokenView {
	info, ok := session.InspectToken(token)
	if !ok {
		return nil
	}
	return &tokenView{
		Subject:   info.Subject,
		Role:      info.Role,
		ExpiresAt: info.ExpiresAt,
		Expired:   !info.ExpiresAt.IsZero() && time.Now().After(info.ExpiresAt),
	}
}

// Home sends authenticated browsers to their dashboard and everyone else to
// the login page.
func (h *PageHandler) Home(c echo.Context) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if !store.IsAuthenticated(ctx) {
		return c.Redirect(http.StatusFound, string(domain.DestinationLogin))
	}
	return c.Redirect(http.StatusFound, string(domain.DashboardFor(store.Snapshot(ctx).Role())))
}

// Dashboard renders the dashboard of the given role. Access control is done
// by the RequireSession and RequireRole middleware.
func (h *PageHandler) Dashboard(role domain.Role) echo.HandlerFunc {
	title := titles[role]
	return func(c echo.Context) error {
		store, err := ctxStore(c)
		if err != nil {
			return err
		}
		s := store.Snapshot(c.Request().Context())
		return c.Render(http.StatusOK, pageDashboard, pageData{
			Title: title,
			User:  s.User,
			Token: inspect(s.Token),
		})
	}
}

var titles = map[domain.Role]string{
	domain.RoleStudent:     "Student Dashboard",
	domain.RoleFaculty:     "Faculty Dashboard",
	domain.RoleMaintenance: "Maintenance Dashboard",
	domain.RoleAdmin:       "Administration Dashboard",
}

type sessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          domain.User `json:"user,omitempty"`
	Token         *tokenView  `json:"token,omitempty"`
	Redirect      string      `json:"redirect"`
}

// Session reports the state of the browser session as JSON.
func (h *PageHandler) Session(c echo.Context) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	s := store.Snapshot(c.Request().Context())

	resp := sessionResponse{
		Authenticated: s.Authenticated(),
		User:          s.User,
		Redirect:      string(domain.DestinationLogin),
	}
	if resp.Authenticated {
		resp.Token = inspect(s.Token)
		resp.Redirect = string(domain.DashboardFor(s.Role()))
	}
	return c.JSON(http.StatusOK, resp)
}
