// Package session keeps the client's bearer token and user record in an
// injectable key/value backend and threads that state through request
// contexts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
	"github.com/smartcampus/campus-portal/internal/pkg/metrics"
)

const (
	TokenKey = "token"
	UserKey  = "user"
)

// Store reads and writes the token/user pair. The two entries are written
// independently; readers must tolerate a token without a user.
type Store struct {
	kv  ports.KeyValueStore
	log zerolog.Logger
}

func NewStore(kv ports.KeyValueStore, log zerolog.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Token returns the stored bearer token, or "" when absent or unreadable.
func (s *Store) Token(ctx context.Context) string {
	tok, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.StorageErrorsTotal.WithLabelValues("get").Inc()
			s.log.Warn().Err(err).Msg("read session token")
		}
		return ""
	}
	return tok
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	if err := s.kv.Set(ctx, TokenKey, token); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("set").Inc()
		return fmt.Errorf("set token: %w", err)
	}
	return nil
}

func (s *Store) ClearToken(ctx context.Context) error {
	if err := s.kv.Delete(ctx, TokenKey); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("delete").Inc()
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// User returns the stored profile record. Missing, corrupt or unreadable
// data all yield nil; this never fails.
func (s *Store) User(ctx context.Context) domain.User {
	raw, err := s.kv.Get(ctx, UserKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.StorageErrorsTotal.WithLabelValues("get").Inc()
			s.log.Warn().Err(err).Msg("read session user")
		}
		return nil
	}

	u, err := domain.ParseUser([]byte(raw))
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding malformed session user")
		return nil
	}
	return u
}

// SetUser stores the record as JSON text. A nil user clears the entry.
func (s *Store) SetUser(ctx context.Context, u domain.User) error {
	if u == nil {
		return s.ClearUser(ctx)
	}
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.kv.Set(ctx, UserKey, string(payload)); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("set").Inc()
		return fmt.Errorf("set user: %w", err)
	}
	return nil
}

func (s *Store) ClearUser(ctx context.Context) error {
	if err := s.kv.Delete(ctx, UserKey); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("delete").Inc()
		return fmt.Errorf("clear user: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a non-empty token is stored. The token is
// not inspected; the server decides whether it is still valid.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// Snapshot reads both halves of the session.
func (s *Store) Snapshot(ctx context.Context) domain.Session {
	return domain.Session{Token: s.Token(ctx), User: s.User(ctx)}
}

// Clear removes token and user, attempting both even if the first fails.
func (s *Store) Clear(ctx context.Context) error {
	return errors.Join(s.ClearToken(ctx), s.ClearUser(ctx))
}
