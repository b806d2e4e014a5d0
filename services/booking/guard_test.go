package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuard(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGuard(time.Minute)

	token, err := g.Acquire(ctx, "k")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = g.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	_, err = g.Acquire(ctx, "other")
	assert.NoError(t, err)

	// A stale token does not release someone else's lock.
	require.NoError(t, g.Release(ctx, "k", "not-the-token"))
	_, err = g.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	require.NoError(t, g.Release(ctx, "k", token))
	_, err = g.Acquire(ctx, "k")
	assert.NoError(t, err)
}

func TestMemoryGuardExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewMemoryGuard(30 * time.Second)
	g.now = func() time.Time { return now }

	_, err := g.Acquire(ctx, "k")
	require.NoError(t, err)

	now = now.Add(29 * time.Second)
	_, err = g.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	now = now.Add(2 * time.Second)
	_, err = g.Acquire(ctx, "k")
	assert.NoError(t, err)
}

func TestMemorySequencer(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySequencer()

	cur, err := s.Current(ctx, "form-1")
	require.NoError(t, err)
	assert.Zero(t, cur)

	for want := int64(1); want <= 3; want++ {
		got, err := s.Next(ctx, "form-1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	cur, _ = s.Current(ctx, "form-1")
	assert.Equal(t, int64(3), cur)
	other, _ := s.Current(ctx, "form-2")
	assert.Zero(t, other)
}
