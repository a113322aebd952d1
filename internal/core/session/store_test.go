package session

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/infrastructure/storage/memory"
)

// failingKV fails every operation.
type failingKV struct{}

var errBackend = errors.New("backend unavailable")

func (failingKV) Get(context.Context, string) (string, error) { return "", errBackend }
func (failingKV) Set(context.Context, string, string) error   { return errBackend }
func (failingKV) Delete(context.Context, string) error        { return errBackend }

func TestStore_TokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.NewStore(), zerolog.Nop())

	if s.Token(ctx) != "" || s.IsAuthenticated(ctx) {
		t.Fatalf("fresh store must be anonymous")
	}
	if err := s.SetToken(ctx, "abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if s.Token(ctx) != "abc" || !s.IsAuthenticated(ctx) {
		t.Fatalf("expected token abc")
	}
	if err := s.SetToken(ctx, "def"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if s.Token(ctx) != "def" {
		t.Fatalf("expected overwrite")
	}
	if err := s.ClearToken(ctx); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if err := s.ClearToken(ctx); err != nil {
		t.Fatalf("second ClearToken: %v", err)
	}
	if s.IsAuthenticated(ctx) {
		t.Fatalf("expected anonymous after clear")
	}
}

func TestStore_EmptyTokenIsAnonymous(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.NewStore(), zerolog.Nop())
	_ = s.SetToken(ctx, "")
	if s.IsAuthenticated(ctx) {
		t.Fatalf("empty token must not authenticate")
	}
}

func TestStore_UserRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	s := NewStore(kv, zerolog.Nop())

	in, err := domain.ParseUser([]byte(`{"id":7,"name":"Ann","role":"student","created_at":"2024-01-01","avatar_url":"x.png","phone":5551234}`))
	if err != nil {
		t.Fatalf("ParseUser: %v", err)
	}
	if err := s.SetUser(ctx, in); err != nil {
		t.Fatalf("SetUser: %v", err)
	}
	got := s.User(ctx)
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("expected %v, got %v", in, got)
	}

	stored, _ := kv.Get(ctx, UserKey)
	var fields map[string]any
	if err := json.Unmarshal([]byte(stored), &fields); err != nil {
		t.Fatalf("stored user is not JSON: %v", err)
	}
	if fields["id"] != float64(7) || fields["avatar_url"] != "x.png" || fields["phone"] != float64(5551234) {
		t.Fatalf("stored record lost fields or types: %s", stored)
	}

	if err := s.SetUser(ctx, nil); err != nil {
		t.Fatalf("SetUser(nil): %v", err)
	}
	if s.User(ctx) != nil {
		t.Fatalf("nil user must clear the entry")
	}
}

func TestStore_MalformedUserIsNil(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	s := NewStore(kv, zerolog.Nop())

	for _, raw := range []string{"{not json", "[1,2]", "undefined"} {
		_ = kv.Set(ctx, UserKey, raw)
		if u := s.User(ctx); u != nil {
			t.Fatalf("malformed %q must read as nil, got %+v", raw, u)
		}
	}
	_ = kv.Set(ctx, UserKey, "null")
	if s.User(ctx) != nil {
		t.Fatalf("null must read as nil")
	}
}

func TestStore_PartialState(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.NewStore(), zerolog.Nop())
	_ = s.SetToken(ctx, "t1")

	snap := s.Snapshot(ctx)
	if !snap.Authenticated() || snap.User != nil || snap.Role() != "" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if domain.DashboardFor(snap.Role()) != domain.DestinationLogin {
		t.Fatalf("token without profile must route to login")
	}
}

func TestStore_BackendFailures(t *testing.T) {
	ctx := context.Background()
	s := NewStore(failingKV{}, zerolog.Nop())

	if s.Token(ctx) != "" || s.User(ctx) != nil || s.IsAuthenticated(ctx) {
		t.Fatalf("reads must degrade to empty on backend failure")
	}
	if err := s.SetToken(ctx, "x"); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if err := s.Clear(ctx); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error from Clear, got %v", err)
	}
}

func TestContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("empty context must not carry a store")
	}
	s := NewStore(memory.NewStore(), zerolog.Nop())
	got, ok := FromContext(WithStore(context.Background(), s))
	if !ok || got != s {
		t.Fatalf("expected the same store back")
	}
}
