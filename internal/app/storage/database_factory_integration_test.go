//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/rust-tracker/database"
)

func TestDatabaseFactory_Lifecycle(t *testing.T) {
	t.Parallel()

	pool := database.SetupTestDB(t)
	factory := newDatabaseFactoryFromPool(pool, nil)
	ctx := context.Background()

	st, err := factory.CreateStore(ctx)
	require.NoError(t, err)
	require.NoError(t, st.Ping(ctx))

	again, err := factory.CreateStore(ctx)
	require.NoError(t, err)
	assert.Same(t, st, again)

	factory.Cleanup()
	_, err = factory.CreateStore(ctx)
	require.Error(t, err)

	// a second cleanup does not close the pool twice
	factory.Cleanup()
}
