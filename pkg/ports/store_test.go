package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/ports"
)

// MockStore is a minimal ContextStore used to exercise the contract itself.
type MockStore struct {
	data map[domain.FeatureScope]map[string]any
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[domain.FeatureScope]map[string]any),
	}
}

func (m *MockStore) Get(ctx context.Context, scope domain.FeatureScope, key string) (any, bool, error) {
	entries, ok := m.data[scope]
	if !ok {
		return nil, false, nil
	}
	value, ok := entries[key]
	return value, ok, nil
}

func (m *MockStore) Set(ctx context.Context, scope domain.FeatureScope, key string, value any) error {
	if _, ok := m.data[scope]; !ok {
		m.data[scope] = make(map[string]any)
	}
	m.data[scope][key] = value
	return nil
}

func (m *MockStore) Reset(ctx context.Context) error {
	m.data = make(map[domain.FeatureScope]map[string]any)
	return nil
}

func TestContextStore_Contract(t *testing.T) {
	ports.RunContextStoreContract(t, NewMockStore())
}

func TestNewRunOptions(t *testing.T) {
	opts := ports.NewRunOptions()
	if !opts.CheckErrors {
		t.Error("expected errors to be checked by default")
	}

	opts = ports.NewRunOptions(ports.WithCheckErrors(false), ports.WithTimeout(10))
	if opts.CheckErrors {
		t.Error("expected WithCheckErrors(false) to disable checks")
	}
	if opts.Timeout != 10 {
		t.Errorf("expected timeout 10, got %v", opts.Timeout)
	}
}
