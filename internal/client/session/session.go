// Package session provides the anonymous session identifier that scopes
// server-side cart and wishlist state before a customer logs in.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

const storageKey = "gemlight.session"

// Storage is the persistence medium behind the provider. Implementations
// are expected to be cheap; Get misses are not errors.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// MemoryStorage keeps values for the life of the process: the volatile,
// per-context behavior: a restart gets a fresh session.
type MemoryStorage struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{m: map[string]string{}} }

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

// FileStorage persists values as a small JSON map on disk, so a watcher
// process keeps its session (and therefore its server-side cart) across
// restarts.
type FileStorage struct {
	mu   sync.Mutex
	Path string
}

func NewFileStorage(path string) *FileStorage { return &FileStorage{Path: path} }

func (s *FileStorage) load() map[string]string {
	m := map[string]string{}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return m
	}
	_ = json.Unmarshal(raw, &m)
	return m
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.load()[key]
	return v, ok && v != ""
}

func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	m[key] = value
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, raw, 0600)
}

// Provider hands out the session id, creating and storing one on first
// use. Repeated calls return the identical id for as long as storage
// cooperates.
type Provider struct {
	mu      sync.Mutex
	storage Storage
	cached  string
}

func NewProvider(s Storage) *Provider { return &Provider{storage: s} }

// SessionID returns the stored id, or synthesizes, stores and returns a
// new one. If the store rejects the write the provider degrades to a
// fresh id per call; the cart just won't survive a restart.
func (p *Provider) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cached != "" {
		return p.cached
	}
	if v, ok := p.storage.Get(storageKey); ok {
		p.cached = v
		return v
	}
	id := newID()
	if err := p.storage.Set(storageKey, id); err != nil {
		// Degraded: don't cache, so the failure stays visible per call.
		return id
	}
	p.cached = id
	return id
}

// newID builds "<unix-millis>-<random-suffix>".
func newID() string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
