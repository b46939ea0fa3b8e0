package scenario

import (
	"context"

	"github.com/aretw0/acceptance/pkg/domain"
)

type scopeKey struct{}

// WithScope returns a copy of ctx carrying the executing feature scope.
func WithScope(ctx context.Context, scope domain.FeatureScope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the feature scope carried by ctx, if any.
func ScopeFrom(ctx context.Context) (domain.FeatureScope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(domain.FeatureScope)
	if !ok || scope == "" {
		return "", false
	}
	return scope, true
}
