package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Total int64            `json:"total"`
	By    map[string]int64 `json:"by"`
}

func TestMemoryCacheRoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetJSON(ctx, "k", payload{Total: 3, By: map[string]int64{"Bali": 3}}, time.Minute))

	var got payload
	ok, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 3, got.By["Bali"])

	now = now.Add(2 * time.Minute)
	ok, err = c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVersionedKeyChangesOnBump(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	k1, err := VersionedKey(ctx, c, "stats", "provinsi=Bali")
	require.NoError(t, err)
	assert.Equal(t, "stats:g0:provinsi=Bali", k1)

	require.NoError(t, c.Bump(ctx, "stats"))
	k2, err := VersionedKey(ctx, c, "stats", "provinsi=Bali")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}
