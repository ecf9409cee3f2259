package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

func TestMemoryWizardRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryWizardRepository()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", map[string]int{"index": 1}, time.Minute))
	var got map[string]int
	require.NoError(t, repo.Get(ctx, "k", &got))
	assert.Equal(t, 1, got["index"])

	require.NoError(t, repo.Delete(ctx, "k"))
	assert.ErrorIs(t, repo.Get(ctx, "k", &got), appErrors.ErrCacheMiss)
}

func TestMemoryWizardRepositoryExpires(t *testing.T) {
	repo := NewMemoryWizardRepository()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", "v", time.Minute))
	now = now.Add(2 * time.Minute)

	var got string
	assert.ErrorIs(t, repo.Get(ctx, "k", &got), appErrors.ErrCacheMiss)
}

func TestMemoryWizardRepositoryDeletePrefix(t *testing.T) {
	repo := NewMemoryWizardRepository()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "wizard:gym:s1:a", "v", 0))
	require.NoError(t, repo.Set(ctx, "wizard:gym:s1:b", "v", 0))
	require.NoError(t, repo.Set(ctx, "wizard:gym:s10:a", "v", 0))

	dropped, err := repo.DeletePrefix(ctx, "wizard:gym:s1:")
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)

	var got string
	assert.NoError(t, repo.Get(ctx, "wizard:gym:s10:a", &got))
}
