package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
	"github.com/smartcampus/campus-portal/internal/core/session"
	"github.com/smartcampus/campus-portal/internal/infrastructure/storage/memory"
)

type stubClient struct {
	calls     int
	lastPath  string
	lastOpts  ports.RequestOptions
	requestFn func(ctx context.Context, path string, opts ports.RequestOptions) (json.RawMessage, error)
}

func (c *stubClient) Request(ctx context.Context, path string, opts ports.RequestOptions) (json.RawMessage, error) {
	c.calls++
	c.lastPath = path
	c.lastOpts = opts
	return c.requestFn(ctx, path, opts)
}

func respond(body string) func(context.Context, string, ports.RequestOptions) (json.RawMessage, error) {
	return func(context.Context, string, ports.RequestOptions) (json.RawMessage, error) {
		return json.RawMessage(body), nil
	}
}

func newSessionCtx() (context.Context, *session.Store) {
	store := session.NewStore(memory.NewStore(), zerolog.Nop())
	return session.WithStore(context.Background(), store), store
}

func TestAuthService_Login_StoresTokenAndUser(t *testing.T) {
	client := &stubClient{requestFn: respond(`{"token":"t1","user":{"id":7,"name":"Ann","email":"ann@campus.edu","role":"faculty"}}`)}
	svc := NewAuthService(client, zerolog.Nop())
	ctx, store := newSessionCtx()

	result, err := svc.Login(ctx, "  ann@campus.edu ", "whatever")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if client.lastPath != LoginPath || client.lastOpts.Method != http.MethodPost {
		t.Fatalf("unexpected request: %s %s", client.lastOpts.Method, client.lastPath)
	}
	in, ok := client.lastOpts.Body.(ports.LoginInput)
	if !ok || in.Email != "ann@campus.edu" || in.Password != "whatever" {
		t.Fatalf("unexpected body: %+v", client.lastOpts.Body)
	}

	if result.Token != "t1" || result.User == nil || result.User.ID() != "7" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got := store.Token(ctx); got != "t1" {
		t.Fatalf("expected stored token t1, got %q", got)
	}
	if u := store.User(ctx); u == nil || u.Role() != domain.RoleFaculty {
		t.Fatalf("expected stored faculty user, got %+v", u)
	}
	if got := svc.RedirectToDashboard(string(result.User.Role())); got != "/dashboard-faculty.html" {
		t.Fatalf("unexpected destination %q", got)
	}
}

func TestAuthService_Login_ServerError(t *testing.T) {
	client := &stubClient{requestFn: func(context.Context, string, ports.RequestOptions) (json.RawMessage, error) {
		return nil, domain.NewServerError(http.StatusUnauthorized, "invalid credentials")
	}}
	svc := NewAuthService(client, zerolog.Nop())
	ctx, store := newSessionCtx()

	_, err := svc.Login(ctx, "ann@campus.edu", "wrong")
	if !errors.Is(err, domain.ErrServer) {
		t.Fatalf("expected server error, got %v", err)
	}
	if err.Error() != "invalid credentials" {
		t.Fatalf("expected message %q, got %q", "invalid credentials", err.Error())
	}
	if store.IsAuthenticated(ctx) {
		t.Fatalf("failed login must not create a session")
	}
}

func TestAuthService_Login_ValidationNotSent(t *testing.T) {
	client := &stubClient{requestFn: respond(`{}`)}
	svc := NewAuthService(client, zerolog.Nop())
	ctx, _ := newSessionCtx()

	cases := []struct {
		name, email, password string
	}{
		{"empty email", "", "secret"},
		{"bad email", "not-an-email", "secret"},
		{"empty password", "ann@campus.edu", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Login(ctx, tc.email, tc.password); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if client.calls != 0 {
		t.Fatalf("expected no requests, got %d", client.calls)
	}
}

func TestAuthService_Login_WithoutUser(t *testing.T) {
	client := &stubClient{requestFn: respond(`{"token":"only-token"}`)}
	svc := NewAuthService(client, zerolog.Nop())
	ctx, store := newSessionCtx()

	result, err := svc.Login(ctx, "ann@campus.edu", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !store.IsAuthenticated(ctx) || store.User(ctx) != nil {
		t.Fatalf("expected token without user")
	}
	if got := svc.RedirectToDashboard(string(result.User.Role())); got != domain.DestinationLogin {
		t.Fatalf("expected login destination, got %q", got)
	}
}

func TestAuthService_Login_UnexpectedShapePassesThrough(t *testing.T) {
	client := &stubClient{requestFn: respond(`{"token":42,"extra":true}`)}
	svc := NewAuthService(client, zerolog.Nop())
	ctx, store := newSessionCtx()

	result, err := svc.Login(ctx, "ann@campus.edu", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if string(result.Raw) != `{"token":42,"extra":true}` {
		t.Fatalf("raw response not preserved: %s", result.Raw)
	}
	if store.IsAuthenticated(ctx) {
		t.Fatalf("non-string token must not be stored")
	}
}

func TestAuthService_Login_KeepsWholeUserRecord(t *testing.T) {
	client := &stubClient{requestFn: respond(`{"token":"t1","user":{"id":7,"role":"student","student_id":20231234,"created_at":"2024-01-01","avatar_url":"x.png"}}`)}
	svc := NewAuthService(client, zerolog.Nop())
	ctx, store := newSessionCtx()

	result, err := svc.Login(ctx, "ann@campus.edu", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if store.Token(ctx) != "t1" {
		t.Fatalf("expected stored token t1, got %q", store.Token(ctx))
	}
	u := store.User(ctx)
	if u == nil || u.Field("student_id") != "20231234" || u.Field("avatar_url") != "x.png" || u.Field("created_at") != "2024-01-01" {
		t.Fatalf("stored user lost fields: %v", u)
	}
	if got := svc.RedirectToDashboard(string(result.User.Role())); got != "/dashboard-student.html" {
		t.Fatalf("unexpected destination %q", got)
	}
}

func TestAuthService_Login_FieldsStoredIndependently(t *testing.T) {
	client := &stubClient{requestFn: respond(`{"token":"t1","user":"ann"}`)}
	svc := NewAuthService(client, zerolog.Nop())
	ctx, store := newSessionCtx()

	if _, err := svc.Login(ctx, "ann@campus.edu", "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if store.Token(ctx) != "t1" || store.User(ctx) != nil {
		t.Fatalf("expected token stored and non-object user ignored")
	}
}

func TestAuthService_Signup_ExtraFields(t *testing.T) {
	client := &stubClient{requestFn: respond(`{"message":"ok"}`)}
	svc := NewAuthService(client, zerolog.Nop())
	ctx, _ := newSessionCtx()

	_, err := svc.Signup(ctx, ports.SignupInput{
		Name:     "Bo",
		Email:    "bo@campus.edu",
		Password: "Abcdefg1!",
		Extra:    map[string]any{"year": 2, "advisor": "Dr. Kim", "email": "spoof@x.io"},
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	sent := client.lastOpts.Body.(map[string]any)
	if sent["year"] != 2 || sent["advisor"] != "Dr. Kim" {
		t.Fatalf("extra fields not posted: %v", sent)
	}
	if sent["email"] != "bo@campus.edu" {
		t.Fatalf("validated fields must win over extras, got %v", sent["email"])
	}
	if _, ok := sent["role"]; ok {
		t.Fatalf("empty optional fields must be omitted: %v", sent)
	}
}

func TestAuthService_NoSession(t *testing.T) {
	svc := NewAuthService(&stubClient{requestFn: respond(`{}`)}, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "ann@campus.edu", "secret"); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), ports.SignupInput{}); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := svc.Logout(context.Background()); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestAuthService_Signup_PendingApproval(t *testing.T) {
	client := &stubClient{requestFn: respond(`{"message":"Account created, awaiting approval","user":{"id":"u1","name":"Bo","email":"bo@campus.edu","role":"student","status":"pending"}}`)}
	svc := NewAuthService(client, zerolog.Nop())
	ctx, store := newSessionCtx()

	result, err := svc.Signup(ctx, ports.SignupInput{
		Name:     " Bo ",
		Email:    "bo@campus.edu",
		Password: "Abcdefg1!",
		Role:     "student",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if client.lastPath != SignupPath {
		t.Fatalf("unexpected path %s", client.lastPath)
	}
	if sent := client.lastOpts.Body.(map[string]any); sent["name"] != "Bo" || sent["role"] != "student" {
		t.Fatalf("unexpected body %v", sent)
	}
	if result.Message == "" {
		t.Fatalf("expected message to be parsed")
	}
	if store.IsAuthenticated(ctx) {
		t.Fatalf("signup without token must not authenticate")
	}
	if u := store.User(ctx); u == nil || u.Field("status") != "pending" {
		t.Fatalf("expected pending user stored, got %+v", u)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	client := &stubClient{requestFn: respond(`{}`)}
	svc := NewAuthService(client, zerolog.Nop())
	ctx, _ := newSessionCtx()

	cases := []struct {
		name string
		in   ports.SignupInput
	}{
		{"missing name", ports.SignupInput{Email: "bo@campus.edu", Password: "Abcdefg1!"}},
		{"weak password", ports.SignupInput{Name: "Bo", Email: "bo@campus.edu", Password: "abcdefgh"}},
		{"short password", ports.SignupInput{Name: "Bo", Email: "bo@campus.edu", Password: "Ab1!"}},
		{"unknown role", ports.SignupInput{Name: "Bo", Email: "bo@campus.edu", Password: "Abcdefg1!", Role: "guest"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Signup(ctx, tc.in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if client.calls != 0 {
		t.Fatalf("expected no requests, got %d", client.calls)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc := NewAuthService(&stubClient{requestFn: respond(`{}`)}, zerolog.Nop())
	ctx, store := newSessionCtx()
	_ = store.SetToken(ctx, "t1")
	_ = store.SetUser(ctx, domain.User{"name": "Ann", "role": "admin"})

	dest, err := svc.Logout(ctx)
	if err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if dest != domain.DestinationLogin {
		t.Fatalf("expected login destination, got %q", dest)
	}
	if store.IsAuthenticated(ctx) || store.User(ctx) != nil {
		t.Fatalf("expected cleared session")
	}

	// idempotent
	if _, err := svc.Logout(ctx); err != nil {
		t.Fatalf("second Logout returned error: %v", err)
	}
}

func TestAuthService_RedirectToDashboard(t *testing.T) {
	svc := NewAuthService(&stubClient{}, zerolog.Nop())
	cases := map[string]domain.Destination{
		"student":     "/dashboard-student.html",
		"faculty":     "/dashboard-faculty.html",
		"maintenance": "/dashboard-maintenance.html",
		"admin":       "/dashboard-admin.html",
		"":            "/login.html",
		"Admin":       "/login.html",
		"guest":       "/login.html",
	}
	for role, want := range cases {
		if got := svc.RedirectToDashboard(role); got != want {
			t.Fatalf("role %q: expected %q, got %q", role, want, got)
		}
	}
}
