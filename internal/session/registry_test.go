package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetHydratesOnce(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	_, err := NewStore("a", storage, DefaultSlots, nil).Login(ctx, authResponse("t", "admin"))
	require.NoError(t, err)

	reg := NewRegistry(storage, Slots{}, nil)
	created := 0
	reg.OnCreate(func(*Store) { created++ })

	first, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	second, err := reg.Get(ctx, "a")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, created)
	assert.True(t, first.IsAuthenticated())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryGetReturnsLoadingStoreOnFailure(t *testing.T) {
	storage := &brokenStorage{MemoryStorage: NewMemoryStorage(), getErr: errors.New("timeout")}
	reg := NewRegistry(storage, DefaultSlots, nil)

	store, err := reg.Get(context.Background(), "a")

	require.Error(t, err)
	require.NotNil(t, store)
	assert.True(t, store.Loading())
}

func TestRegistryForgetAndPeek(t *testing.T) {
	reg := NewRegistry(NewMemoryStorage(), DefaultSlots, nil)
	_, err := reg.Get(context.Background(), "a")
	require.NoError(t, err)

	store, ok := reg.Peek("a")
	require.True(t, ok)
	events, _ := store.Subscribe()

	reg.Forget("a")
	_, ok = reg.Peek("a")
	assert.False(t, ok)

	_, open := <-events
	assert.False(t, open, "forgetting a store ends its subscriptions")
}

func TestRegistrySweepDropsIdleStores(t *testing.T) {
	reg := NewRegistry(NewMemoryStorage(), DefaultSlots, nil)
	_, err := reg.Get(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, 0, reg.Sweep(time.Hour, time.Now()))
	assert.Equal(t, 1, reg.Sweep(time.Hour, time.Now().Add(2*time.Hour)))
	assert.Equal(t, 0, reg.Len())
}
