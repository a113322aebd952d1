package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartcampus/campus-portal/internal/api/middleware"
	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,campus_email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type signupRequest struct {
	Name       string `json:"name" form:"name" validate:"required"`
	Email      string `json:"email" form:"email" validate:"required,campus_email"`
	Password   string `json:"password" form:"password" validate:"required,campus_password"`
	Role       string `json:"role" form:"role" validate:"omitempty,oneof=student faculty maintenance admin"`
	Department string `json:"department" form:"department"`
	Phone      string `json:"phone" form:"phone"`
	StudentID  string `json:"student_id" form:"student_id"`
}

// signupFields are the keys bound into signupRequest. Anything else posted
// with a signup travels to the API as an extra registration field.
var signupFields = map[string]bool{
	"name":       true,
	"email":      true,
	"password":   true,
	"role":       true,
	"department": true,
	"phone":      true,
	"student_id": true,
}

type authResponse struct {
	User     domain.User `json:"user,omitempty"`
	Message  string      `json:"message,omitempty"`
	Redirect string      `json:"redirect"`
}

// pageData feeds every portal template.
type pageData struct {
	Title string
	Alert *alert
	User  domain.User
	Form  map[string]string
	Roles []domain.Role
	Token *tokenView
}

const signupPendingNotice = "Account created. You can sign in once it has been approved."

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	data := pageData{Title: "Sign in"}
	if c.QueryParam("signup") == "pending" {
		data.Alert = &alert{Type: "success", Message: signupPendingNotice}
	}
	return c.Render(http.StatusOK, pageLogin, data)
}

// Login authenticates against the campus API and redirects to the dashboard
// for the returned role.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := c.Validate(&req); err != nil {
		return h.loginFailed(c, req, err)
	}
	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.loginFailed(c, req, err)
	}

	dest := h.authService.RedirectToDashboard(string(result.User.Role()))
	if middleware.WantsJSON(c) {
		return c.JSON(http.StatusOK, authResponse{User: result.User, Message: result.Message, Redirect: string(dest)})
	}
	return c.Redirect(http.StatusSeeOther, string(dest))
}

func (h *AuthHandler) loginFailed(c echo.Context, req loginRequest, err error) error {
	if middleware.WantsJSON(c) {
		return err
	}
	return c.Render(StatusFor(err), pageLogin, pageData{
		Title: "Sign in",
		Alert: alertError(err),
		Form:  map[string]string{"email": req.Email},
	})
}

// SignupPage renders the registration form.
func (h *AuthHandler) SignupPage(c echo.Context) error {
	return c.Render(http.StatusOK, pageSignup, pageData{
		Title: "Create an account",
		Roles: domain.Roles,
		Form:  map[string]string{"role": string(domain.RoleStudent)},
	})
}

// Signup registers an account. Accounts that received a token go straight to
// their dashboard; pending accounts go back to the login page with a notice.
func (h *AuthHandler) Signup(c echo.Context) error {
	req, extra, err := bindSignup(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := c.Validate(&req); err != nil {
		return h.signupFailed(c, req, err)
	}
	result, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
		Phone:      req.Phone,
		StudentID:  req.StudentID,
		Extra:      extra,
	})
	if err != nil {
		return h.signupFailed(c, req, err)
	}

	dest := domain.Destination(string(domain.DestinationLogin) + "?signup=pending")
	if result.Token != "" {
		dest = h.authService.RedirectToDashboard(string(result.User.Role()))
	}

	if middleware.WantsJSON(c) {
		return c.JSON(http.StatusCreated, authResponse{User: result.User, Message: result.Message, Redirect: string(dest)})
	}
	return c.Redirect(http.StatusSeeOther, string(dest))
}

func (h *AuthHandler) signupFailed(c echo.Context, req signupRequest, err error) error {
	if middleware.WantsJSON(c) {
		return err
	}
	return c.Render(StatusFor(err), pageSignup, pageData{
		Title: "Create an account",
		Alert: alertError(err),
		Roles: domain.Roles,
		Form: map[string]string{
			"name":       req.Name,
			"email":      req.Email,
			"role":       req.Role,
			"department": req.Department,
			"phone":      req.Phone,
			"student_id": req.StudentID,
		},
	})
}

// bindSignup binds the known signup fields and collects every other posted
// field. JSON extras keep their JSON form; form extras are strings, or
// string lists when repeated.
func bindSignup(c echo.Context) (signupRequest, map[string]any, error) {
	var req signupRequest
	r := c.Request()
	extra := map[string]any{}

	if strings.HasPrefix(r.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return req, nil, err
		}
		var all map[string]json.RawMessage
		if err := json.Unmarshal(body, &all); err != nil {
			return req, nil, err
		}
		for k, v := range all {
			if !signupFields[k] {
				extra[k] = v
			}
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	if err := c.Bind(&req); err != nil {
		return req, nil, err
	}

	if !strings.HasPrefix(r.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if _, err := c.FormParams(); err != nil {
			return req, nil, err
		}
		for k, vs := range r.PostForm {
			switch {
			case signupFields[k] || len(vs) == 0:
			case len(vs) == 1:
				extra[k] = vs[0]
			default:
				extra[k] = vs
			}
		}
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.TrimSpace(req.Role)
	req.Department = strings.TrimSpace(req.Department)
	req.Phone = strings.TrimSpace(req.Phone)
	req.StudentID = strings.TrimSpace(req.StudentID)

	if len(extra) == 0 {
		extra = nil
	}
	return req, extra, nil
}

// Logout clears the browser session and returns to the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	dest, err := h.authService.Logout(c.Request().Context())
	if err != nil {
		return err
	}
	h.log.Debug().Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Msg("logged out")

	if middleware.WantsJSON(c) {
		return c.JSON(http.StatusOK, authResponse{Redirect: string(dest)})
	}
	return c.Redirect(http.StatusSeeOther, string(dest))
}
