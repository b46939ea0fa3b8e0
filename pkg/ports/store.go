package ports

import (
	"context"

	"github.com/aretw0/acceptance/pkg/domain"
)

// ContextStore is the scratch space scenario steps use to hand values to each other.
// Keys are unique within a scope. Entries are created on first write and overwritten on repeated writes.
type ContextStore interface {
	// Get returns the value stored under key in scope.
	// An unknown scope or key is reported as absent (ok == false), never as an error.
	Get(ctx context.Context, scope domain.FeatureScope, key string) (value any, ok bool, err error)

	// Set defines or replaces key in scope, creating the scope on first use.
	Set(ctx context.Context, scope domain.FeatureScope, key string, value any) error

	// Reset drops every scope. Callers use it between independent runs.
	Reset(ctx context.Context) error
}
