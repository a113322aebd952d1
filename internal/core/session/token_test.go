package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestInspectToken(t *testing.T) {
	iat := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	exp := iat.Add(24 * time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-7",
		"role": "maintenance",
		"iat":  iat.Unix(),
		"exp":  exp.Unix(),
	}).SignedString([]byte("key-the-client-never-sees"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	info, ok := InspectToken(token)
	if !ok {
		t.Fatalf("expected JWT to be readable")
	}
	if info.Subject != "user-7" || info.Role != "maintenance" {
		t.Fatalf("unexpected claims %+v", info)
	}
	if !info.IssuedAt.Equal(iat) || !info.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected times %+v", info)
	}
}

func TestInspectToken_Opaque(t *testing.T) {
	for _, tok := range []string{"", "opaque-session-token", "a.b.c"} {
		if _, ok := InspectToken(tok); ok {
			t.Fatalf("%q must not be readable", tok)
		}
	}
}
