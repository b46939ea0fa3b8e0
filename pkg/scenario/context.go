package scenario

import (
	"context"
	"fmt"

	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/ports"
)

// Context is a ContextStore bound to the scope carried by each call's context.
type Context struct {
	store ports.ContextStore
}

// NewContext binds store to the ambient feature scope.
func NewContext(store ports.ContextStore) *Context {
	return &Context{store: store}
}

// Get reads key from the current scope. Without a scope every key is absent.
func (c *Context) Get(ctx context.Context, key string) (any, bool, error) {
	scope, ok := ScopeFrom(ctx)
	if !ok {
		return nil, false, nil
	}
	return c.store.Get(ctx, scope, key)
}

// Set writes key into the current scope.
func (c *Context) Set(ctx context.Context, key string, value any) error {
	scope, ok := ScopeFrom(ctx)
	if !ok {
		return fmt.Errorf("set %q: %w", key, domain.ErrScopeMissing)
	}
	return c.store.Set(ctx, scope, key, value)
}

// GetString reads key and formats it as a string.
func (c *Context) GetString(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	if s, isString := value.(string); isString {
		return s, true, nil
	}
	return fmt.Sprint(value), true, nil
}

// Reset clears the underlying store.
func (c *Context) Reset(ctx context.Context) error {
	return c.store.Reset(ctx)
}
