package services

import (
	"context"
	"testing"
	"time"

	"github.com/localnerve/jam-build-shoppinglist/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lockout := &Lockout{Limit: 3, Cooloff: time.Hour, Now: func() time.Time { return now }}

	for i := 0; i < 2; i++ {
		require.NoError(t, lockout.RecordFailure(ctx, db, "alice@example.com", "10.0.0.1"))
	}
	_, err := lockout.Check(ctx, db, "alice@example.com", "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, lockout.RecordFailure(ctx, db, "Alice@Example.com", "10.0.0.1"))
	remaining, err := lockout.Check(ctx, db, "alice@example.com", "10.0.0.1")
	assert.ErrorIs(t, err, ErrLockedOut)
	assert.Equal(t, time.Hour, remaining)

	// another address is counted separately
	_, err = lockout.Check(ctx, db, "alice@example.com", "10.0.0.2")
	assert.NoError(t, err)

	now = now.Add(61 * time.Minute)
	_, err = lockout.Check(ctx, db, "alice@example.com", "10.0.0.1")
	assert.NoError(t, err, "cool-off elapsed")

	// a stale count starts over
	require.NoError(t, lockout.RecordFailure(ctx, db, "alice@example.com", "10.0.0.1"))
	_, err = lockout.Check(ctx, db, "alice@example.com", "10.0.0.1")
	assert.NoError(t, err)
}

func TestLockoutReset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	lockout := &Lockout{Limit: 1, Cooloff: time.Hour}

	require.NoError(t, lockout.RecordFailure(ctx, db, "alice@example.com", "10.0.0.1"))
	_, err := lockout.Check(ctx, db, "alice@example.com", "10.0.0.1")
	require.ErrorIs(t, err, ErrLockedOut)

	require.NoError(t, lockout.Reset(ctx, db, "alice@example.com", "10.0.0.1"))
	_, err = lockout.Check(ctx, db, "alice@example.com", "10.0.0.1")
	assert.NoError(t, err)
}
