// Package file persists session state in a JSON file so that it survives
// process restarts, the way local storage survives page loads.
//
// The whole file is re-read on every operation and rewritten atomically on
// every change; concurrent processes therefore see last-write-wins.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
)

const (
	filePerm = 0o600
	dirPerm  = 0o700
)

type state map[string]map[string]string

type Provider struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

var _ ports.StorageProvider = (*Provider)(nil)

func NewProvider(path string, log zerolog.Logger) *Provider {
	return &Provider{path: path, log: log}
}

func (p *Provider) Scope(namespace string) ports.KeyValueStore {
	return &Store{p: p, namespace: namespace}
}

// Ping creates the state file's directory if needed and checks it is usable.
func (p *Provider) Ping(_ context.Context) error {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("state dir: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("state dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("state dir: %s is not a directory", dir)
	}
	return nil
}

func (p *Provider) read() (state, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return state{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return state{}, nil
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}
	if st == nil {
		st = state{}
	}
	return st, nil
}

// readForWrite discards a corrupt file instead of failing, so a broken file
// never blocks a new login.
func (p *Provider) readForWrite() (state, error) {
	st, err := p.read()
	if err == nil {
		return st, nil
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		p.log.Warn().Err(err).Str("path", p.path).Msg("replacing corrupt state file")
		return state{}, nil
	}
	return nil, err
}

func (p *Provider) write(st state) error {
	if err := os.MkdirAll(filepath.Dir(p.path), dirPerm); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

type Store struct {
	p         *Provider
	namespace string
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	st, err := s.p.read()
	if err != nil {
		return "", err
	}
	v, ok := st[s.namespace][key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	st, err := s.p.readForWrite()
	if err != nil {
		return err
	}
	if st[s.namespace] == nil {
		st[s.namespace] = make(map[string]string)
	}
	st[s.namespace][key] = value
	return s.p.write(st)
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	st, err := s.p.readForWrite()
	if err != nil {
		return err
	}
	ns, ok := st[s.namespace]
	if !ok {
		return nil
	}
	if _, ok := ns[key]; !ok {
		return nil
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(st, s.namespace)
	}
	return s.p.write(st)
}
