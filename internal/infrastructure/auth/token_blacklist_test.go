package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()

	t.Run("revoked jti is blacklisted", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		require.NoError(t, bl.Add(ctx, "jti-1", time.Minute))

		revoked, err := bl.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("unknown jti is not blacklisted", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		revoked, err := bl.IsBlacklisted(ctx, "jti-unknown")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("non-positive ttl is a no-op", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		require.NoError(t, bl.Add(ctx, "jti-expired", 0))

		revoked, err := bl.IsBlacklisted(ctx, "jti-expired")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("entry lapses after its ttl", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		require.NoError(t, bl.Add(ctx, "jti-short", 10*time.Millisecond))
		time.Sleep(20 * time.Millisecond)

		revoked, err := bl.IsBlacklisted(ctx, "jti-short")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
