// Package memory is an in-process session backend. State is lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
)

type Provider struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

var _ ports.StorageProvider = (*Provider)(nil)

func NewProvider() *Provider {
	return &Provider{data: make(map[string]map[string]string)}
}

// Scope returns the store for one namespace.
func (p *Provider) Scope(namespace string) ports.KeyValueStore {
	return &Store{p: p, namespace: namespace}
}

// NewStore is a shortcut for a single standalone scope.
func NewStore() ports.KeyValueStore {
	return NewProvider().Scope("")
}

type Store struct {
	p         *Provider
	namespace string
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.p.mu.RLock()
	defer s.p.mu.RUnlock()

	v, ok := s.p.data[s.namespace][key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	ns, ok := s.p.data[s.namespace]
	if !ok {
		ns = make(map[string]string)
		s.p.data[s.namespace] = ns
	}
	ns[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	ns, ok := s.p.data[s.namespace]
	if !ok {
		return nil
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(s.p.data, s.namespace)
	}
	return nil
}
