package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
	"github.com/smartcampus/campus-portal/internal/core/session"
	"github.com/smartcampus/campus-portal/internal/pkg/metrics"
	"github.com/smartcampus/campus-portal/internal/pkg/validation"
)

const (
	LoginPath  = "/auth/login"
	SignupPath = "/auth/signup"
)

// AuthService implements login, signup, logout and role redirection on top
// of the API client and the session store carried by the request context.
type AuthService struct {
	client   ports.APIClient
	validate *validator.Validate
	log      zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(client ports.APIClient, log zerolog.Logger) *AuthService {
	return &AuthService{
		client:   client,
		validate: validation.New(),
		log:      log,
	}
}

// Login posts the credentials and stores whatever token and user the server
// returned. The full response is handed back for role-based redirection.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	store, ok := session.FromContext(ctx)
	if !ok {
		return nil, domain.ErrNoSession
	}

	in := ports.LoginInput{Email: strings.TrimSpace(email), Password: password}
	if err := s.validate.Struct(in); err != nil {
		return nil, s.fail("login", domain.NewValidationError(validation.Message(err)))
	}

	result, err := s.post(ctx, LoginPath, in)
	if err != nil {
		return nil, s.fail("login", err)
	}

	if result.Token != "" {
		if err := store.SetToken(ctx, result.Token); err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
	}
	if result.User != nil {
		if err := store.SetUser(ctx, result.User); err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
	}

	metrics.AuthEventsTotal.WithLabelValues("login", "success").Inc()
	s.log.Info().
		Str("email", in.Email).
		Str("role", string(result.User.Role())).
		Bool("token", result.Token != "").
		Msg("login succeeded")

	return result, nil
}

// Signup registers a new account. New accounts are usually pending approval,
// so the server may not issue a token; a session exists afterwards only if it
// did.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.AuthResult, error) {
	store, ok := session.FromContext(ctx)
	if !ok {
		return nil, domain.ErrNoSession
	}

	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, s.fail("signup", domain.NewValidationError(validation.Message(err)))
	}

	result, err := s.post(ctx, SignupPath, signupBody(in))
	if err != nil {
		return nil, s.fail("signup", err)
	}

	if result.Token != "" {
		if err := store.SetToken(ctx, result.Token); err != nil {
			return nil, fmt.Errorf("signup: %w", err)
		}
	}
	if result.User != nil {
		if err := store.SetUser(ctx, result.User); err != nil {
			return nil, fmt.Errorf("signup: %w", err)
		}
	}

	metrics.AuthEventsTotal.WithLabelValues("signup", "success").Inc()
	s.log.Info().
		Str("email", in.Email).
		Bool("token", result.Token != "").
		Msg("signup accepted")

	return result, nil
}

// Logout clears token and user and returns where to navigate next.
func (s *AuthService) Logout(ctx context.Context) (domain.Destination, error) {
	store, ok := session.FromContext(ctx)
	if !ok {
		return domain.DestinationLogin, domain.ErrNoSession
	}
	if err := store.Clear(ctx); err != nil {
		metrics.AuthEventsTotal.WithLabelValues("logout", "error").Inc()
		return domain.DestinationLogin, fmt.Errorf("logout: %w", err)
	}
	metrics.AuthEventsTotal.WithLabelValues("logout", "success").Inc()
	return domain.DestinationLogin, nil
}

// RedirectToDashboard maps a role to its dashboard; unknown roles get the
// login page.
func (s *AuthService) RedirectToDashboard(role string) domain.Destination {
	return domain.DashboardFor(role)
}

// post sends body and interprets the token, user and message fields of the
// reply independently, so an odd shape in one never hides the others. The
// whole reply is kept in Raw.
func (s *AuthService) post(ctx context.Context, path string, body any) (*domain.AuthResult, error) {
	raw, err := s.client.Request(ctx, path, ports.RequestOptions{
		Method: http.MethodPost,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	result := &domain.AuthResult{Raw: raw}
	var reply struct {
		Token   json.RawMessage `json:"token"`
		User    json.RawMessage `json:"user"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		s.log.Debug().Err(err).Str("path", path).Msg("auth response is not an object")
		return result, nil
	}

	result.Token = jsonString(reply.Token)
	result.Message = jsonString(reply.Message)
	user, err := domain.ParseUser(reply.User)
	if err != nil {
		s.log.Debug().Err(err).Str("path", path).Msg("ignoring user in auth response")
	}
	result.User = user
	return result, nil
}

// signupBody merges the caller's extra registration fields with the
// validated ones. Validated fields win.
func signupBody(in ports.SignupInput) map[string]any {
	body := make(map[string]any, len(in.Extra)+7)
	for k, v := range in.Extra {
		body[k] = v
	}
	body["name"] = in.Name
	body["email"] = in.Email
	body["password"] = in.Password

	optional := map[string]string{
		"role":       in.Role,
		"department": in.Department,
		"phone":      in.Phone,
		"student_id": in.StudentID,
	}
	for k, v := range optional {
		if v != "" {
			body[k] = v
		}
	}
	return body
}

// jsonString returns the value of a JSON string, or "" for any other value.
func jsonString(raw json.RawMessage) string {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v
}

func (s *AuthService) fail(flow string, err error) error {
	kind := string(domain.KindOf(err))
	if kind == "" {
		kind = "error"
	}
	metrics.AuthEventsTotal.WithLabelValues(flow, kind).Inc()

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Kind == domain.KindValidation {
		s.log.Debug().Err(err).Str("flow", flow).Msg("rejected before sending")
	} else {
		s.log.Warn().Err(err).Str("flow", flow).Msg("auth request failed")
	}
	return err
}
