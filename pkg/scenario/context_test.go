package scenario_test

import (
	"context"
	"testing"

	"github.com/aretw0/acceptance/pkg/adapters/memory"
	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeFrom(t *testing.T) {
	_, ok := scenario.ScopeFrom(context.Background())
	assert.False(t, ok)

	_, ok = scenario.ScopeFrom(scenario.WithScope(context.Background(), ""))
	assert.False(t, ok, "an empty scope is no scope")

	scope, ok := scenario.ScopeFrom(scenario.WithScope(context.Background(), "features/a.feature"))
	assert.True(t, ok)
	assert.Equal(t, domain.FeatureScope("features/a.feature"), scope)
}

func TestContext(t *testing.T) {
	store := memory.NewStore()
	vars := scenario.NewContext(store)

	t.Run("Missing Scope", func(t *testing.T) {
		ctx := context.Background()

		err := vars.Set(ctx, "k", "v")
		assert.ErrorIs(t, err, domain.ErrScopeMissing)

		_, ok, err := vars.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Bound Scope", func(t *testing.T) {
		a := scenario.WithScope(context.Background(), "features/a.feature")
		b := scenario.WithScope(context.Background(), "features/b.feature")

		require.NoError(t, vars.Set(a, "system_id", 1000010000))

		got, ok, err := vars.GetString(a, "system_id")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1000010000", got)

		_, ok, err = vars.Get(b, "system_id")
		require.NoError(t, err)
		assert.False(t, ok)

		value, ok, err := store.Get(context.Background(), "features/a.feature", "system_id")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1000010000, value)
	})

	t.Run("Reset", func(t *testing.T) {
		a := scenario.WithScope(context.Background(), "features/a.feature")
		require.NoError(t, vars.Set(a, "k", "v"))
		require.NoError(t, vars.Reset(a))

		_, ok, err := vars.Get(a, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
