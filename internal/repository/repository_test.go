package repository

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"safarinova/internal/config"
	"safarinova/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisCache(t *testing.T) (*RedisClaimsCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := NewRedisClient(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisClaimsCache(client), mr
}

func sampleClaims() *models.Claims {
	return &models.Claims{
		Subject:   "subject-1",
		Email:     "s1@safarinova.com",
		Name:      "Subject One",
		ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Second),
	}
}

func TestRedisClaimsRoundTrip(t *testing.T) {
	cache, _ := setupRedisCache(t)
	ctx := context.Background()

	claims := sampleClaims()
	require.NoError(t, cache.SetClaims(ctx, "fp-1", claims, time.Minute))

	got, err := cache.GetClaims(ctx, "fp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, claims.Subject, got.Subject)
	assert.Equal(t, claims.Email, got.Email)
}

func TestRedisClaimsMissIsNilNil(t *testing.T) {
	cache, _ := setupRedisCache(t)

	got, err := cache.GetClaims(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisClaimsTTLExpiry(t *testing.T) {
	cache, mr := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetClaims(ctx, "fp-1", sampleClaims(), time.Minute))
	mr.FastForward(2 * time.Minute)

	got, err := cache.GetClaims(ctx, "fp-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryClaimsCache(t *testing.T) {
	cache := NewMemoryClaimsCache()
	ctx := context.Background()

	got, err := cache.GetClaims(ctx, "fp-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	claims := sampleClaims()
	require.NoError(t, cache.SetClaims(ctx, "fp-1", claims, time.Minute))

	got, err = cache.GetClaims(ctx, "fp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, claims.Subject, got.Subject)

	// A non-positive ttl is a no-op rather than an immortal entry.
	require.NoError(t, cache.SetClaims(ctx, "fp-2", claims, 0))
	got, err = cache.GetClaims(ctx, "fp-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryClaimsCacheExpiry(t *testing.T) {
	cache := NewMemoryClaimsCache()
	ctx := context.Background()

	require.NoError(t, cache.SetClaims(ctx, "fp-1", sampleClaims(), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	got, err := cache.GetClaims(ctx, "fp-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

type failingCache struct {
	fail  bool
	calls int
}

func (f *failingCache) GetClaims(context.Context, string) (*models.Claims, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("primary down")
	}
	return nil, nil
}

func (f *failingCache) SetClaims(context.Context, string, *models.Claims, time.Duration) error {
	f.calls++
	if f.fail {
		return fmt.Errorf("primary down")
	}
	return nil
}

func TestFailoverSwitchesToFallback(t *testing.T) {
	logger := zerolog.New(io.Discard)
	primary := &failingCache{fail: true}
	fallback := NewMemoryClaimsCache()
	cache := NewFailoverClaimsCache(primary, fallback, &logger)
	ctx := context.Background()

	claims := sampleClaims()
	require.NoError(t, cache.SetClaims(ctx, "fp-1", claims, time.Minute))

	got, err := cache.GetClaims(ctx, "fp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, claims.Subject, got.Subject)

	// After the first failure the primary is skipped until the cooldown.
	calls := primary.calls
	_, err = cache.GetClaims(ctx, "fp-1")
	require.NoError(t, err)
	assert.Equal(t, calls, primary.calls)
}

func TestFailoverPrefersHealthyPrimary(t *testing.T) {
	logger := zerolog.New(io.Discard)
	primary := NewMemoryClaimsCache()
	fallback := NewMemoryClaimsCache()
	cache := NewFailoverClaimsCache(primary, fallback, &logger)
	ctx := context.Background()

	require.NoError(t, cache.SetClaims(ctx, "fp-1", sampleClaims(), time.Minute))

	got, err := primary.GetClaims(ctx, "fp-1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	got, err = fallback.GetClaims(ctx, "fp-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
