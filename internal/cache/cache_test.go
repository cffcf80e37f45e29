package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"janmat/backend/internal/cache"
)

// unreachableClient points at a port nothing listens on, so every
// operation fails fast and trips the fallback.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestResilient_FallsBackWhenStoreIsDown(t *testing.T) {
	c := cache.New(unreachableClient())
	ctx := context.Background()

	assert.False(t, c.Degraded())

	c.Set(ctx, "otp:asha", "483920", 0)
	assert.True(t, c.Degraded())

	val, ok := c.Get(ctx, "otp:asha")
	assert.True(t, ok)
	assert.Equal(t, "483920", val)
}

func TestResilient_DegradationIsSticky(t *testing.T) {
	c := cache.New(unreachableClient())
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)
	assert.True(t, c.Degraded())

	// Later operations go straight to the local map.
	c.Set(ctx, "k", "v", 0)
	val, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)
	assert.True(t, c.Degraded())
}

func TestResilient_FallbackHonoursExpiry(t *testing.T) {
	c := cache.New(unreachableClient())
	ctx := context.Background()

	c.Set(ctx, "short", "lived", 30*time.Millisecond)
	val, ok := c.Get(ctx, "short")
	assert.True(t, ok)
	assert.Equal(t, "lived", val)

	time.Sleep(50 * time.Millisecond)

	_, ok = c.Get(ctx, "short")
	assert.False(t, ok)
}

func TestResilient_DelRemovesFallbackKey(t *testing.T) {
	c := cache.New(unreachableClient())
	ctx := context.Background()

	c.Set(ctx, "k", "v", 0)
	c.Del(ctx, "k")

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestResilient_ReconnectFailsWhileStoreIsDown(t *testing.T) {
	c := cache.New(unreachableClient())
	ctx := context.Background()

	c.Set(ctx, "k", "v", 0)
	assert.True(t, c.Degraded())

	assert.Error(t, c.Reconnect(ctx))
	assert.True(t, c.Degraded())
}

func TestOTP_IssueVerifyConsumes(t *testing.T) {
	c := cache.New(unreachableClient())
	svc := cache.NewOTPService(c)
	ctx := context.Background()

	code, err := svc.Issue(ctx, "asha@example.com")
	assert.NoError(t, err)
	assert.Len(t, code, 6)

	assert.True(t, svc.Verify(ctx, "asha@example.com", code))
	// Consumed on first success.
	assert.False(t, svc.Verify(ctx, "asha@example.com", code))
}

func TestOTP_RejectsWrongCodeWithoutConsuming(t *testing.T) {
	c := cache.New(unreachableClient())
	svc := cache.NewOTPService(c)
	ctx := context.Background()

	code, err := svc.Issue(ctx, "asha@example.com")
	assert.NoError(t, err)

	assert.False(t, svc.Verify(ctx, "asha@example.com", "000000"))
	assert.True(t, svc.Verify(ctx, "asha@example.com", code))
}

func TestOTP_ReissueOverwritesPreviousCode(t *testing.T) {
	c := cache.New(unreachableClient())
	svc := cache.NewOTPService(c)
	ctx := context.Background()

	first, err := svc.Issue(ctx, "asha@example.com")
	assert.NoError(t, err)
	second, err := svc.Issue(ctx, "asha@example.com")
	assert.NoError(t, err)

	if first != second {
		assert.False(t, svc.Verify(ctx, "asha@example.com", first))
	}
	assert.True(t, svc.Verify(ctx, "asha@example.com", second))
}
