package products

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	gst := 18.0
	p := &Product{ID: 7, SKU: "MUG-01", Name: "Ceramic Mug", HSNCode: "6912", GSTPercent: &gst, UnitRate: 120, UOM: "PCS"}

	assert.Nil(t, c.Get(ctx, 7), "cold cache misses")

	c.Set(ctx, p)
	got := c.Get(ctx, 7)
	require.NotNil(t, got)
	assert.Equal(t, p.HSNCode, got.HSNCode)
	require.NotNil(t, got.GSTPercent)
	assert.Equal(t, gst, *got.GSTPercent)
}

func TestCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	c.Set(ctx, &Product{ID: 3, Name: "Pen"})
	require.NotNil(t, c.Get(ctx, 3))

	c.Invalidate(ctx, 3)
	assert.Nil(t, c.Get(ctx, 3))
}

func TestNilCacheIsSafe(t *testing.T) {
	ctx := context.Background()
	var c *Cache
	assert.Nil(t, c.Get(ctx, 1))
	c.Set(ctx, &Product{ID: 1})
	c.Invalidate(ctx, 1)
}
