package memory

import (
	"context"
	"sync"

	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/ports"
)

// Store implements ports.ContextStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[domain.FeatureScope]map[string]any
	mu   sync.RWMutex
}

var _ ports.ContextStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[domain.FeatureScope]map[string]any),
	}
}

// Get returns the value under key in scope.
func (s *Store) Get(ctx context.Context, scope domain.FeatureScope, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.data[scope]
	if !ok {
		return nil, false, nil
	}
	value, ok := entries[key]
	return value, ok, nil
}

// Set stores value under key in scope, creating the scope on first write.
func (s *Store) Set(ctx context.Context, scope domain.FeatureScope, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.data[scope]
	if !ok {
		entries = make(map[string]any)
		s.data[scope] = entries
	}
	entries[key] = value
	return nil
}

// Reset drops every scope.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[domain.FeatureScope]map[string]any)
	return nil
}

// Scopes returns the scopes written so far.
func (s *Store) Scopes() []domain.FeatureScope {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scopes := make([]domain.FeatureScope, 0, len(s.data))
	for scope := range s.data {
		scopes = append(scopes, scope)
	}
	return scopes
}
