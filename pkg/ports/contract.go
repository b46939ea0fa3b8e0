package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunContextStoreContract runs a suite of tests to verify that a ContextStore implementation
// adheres to the defined interface contract.
func RunContextStoreContract(t *testing.T, store ContextStore) {
	ctx := context.Background()
	scope := domain.FeatureScope("features/contract-" + time.Now().Format("20060102150405") + ".feature")

	t.Run("Get Unknown Scope", func(t *testing.T) {
		value, ok, err := store.Get(ctx, "features/never-written.feature", "anything")
		require.NoError(t, err, "Get on an unknown scope should not return error")
		assert.False(t, ok)
		assert.Nil(t, value)
	})

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, scope, "system_id", "1000010000"))

		value, ok, err := store.Get(ctx, scope, "system_id")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1000010000", value)
	})

	t.Run("Get Unknown Key In Known Scope", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, scope, "present", true))

		_, ok, err := store.Get(ctx, scope, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, scope, "channel", "first"))
		require.NoError(t, store.Set(ctx, scope, "channel", "second"))

		value, ok, err := store.Get(ctx, scope, "channel")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "second", value, "Get should return the last value set")
	})

	t.Run("Scopes Are Isolated", func(t *testing.T) {
		other := scope + "-other"
		require.NoError(t, store.Set(ctx, scope, "isolated", "mine"))

		_, ok, err := store.Get(ctx, other, "isolated")
		require.NoError(t, err)
		assert.False(t, ok, "a key written in one scope must not leak into another")
	})

	t.Run("Reset", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, scope, "stale", "value"))
		require.NoError(t, store.Reset(ctx))

		_, ok, err := store.Get(ctx, scope, "stale")
		require.NoError(t, err)
		assert.False(t, ok, "Get after Reset should report absent")
	})
}
