// Package session keeps the authenticated administrator between requests and
// CLI invocations.
package session

import (
	"context"
	"maps"
	"sync"
)

// Keys persisted by every Store.
const (
	KeyAuthenticated   = "isAuthenticated"
	KeyToken           = "authToken"
	KeyTokenExpiration = "tokenExpiration"
	KeyAdmin           = "administrateur"
)

// Keys lists the persisted keys in write order.
var Keys = []string{KeyAuthenticated, KeyToken, KeyTokenExpiration, KeyAdmin}

// Store persists session values. Save replaces every key.
type Store interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Load(context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values), nil
}

func (s *MemoryStore) Save(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = maps.Clone(values)
	if s.values == nil {
		s.values = map[string]string{}
	}
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]string{}
	return nil
}
