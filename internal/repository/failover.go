package repository

import (
	"context"
	"sync/atomic"
	"time"

	"safarinova/internal/domain"
	"safarinova/internal/models"

	"github.com/rs/zerolog"
)

// FailoverClaimsCache serves from the primary cache and falls back to a
// local one when the primary errors. The primary is retried after a
// cooldown of one minute.
type FailoverClaimsCache struct {
	primary   domain.ClaimsCache
	fallback  domain.ClaimsCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverClaimsCache(primary, fallback domain.ClaimsCache, logger *zerolog.Logger) *FailoverClaimsCache {
	return &FailoverClaimsCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverClaimsCache) GetClaims(ctx context.Context, fingerprint string) (*models.Claims, error) {
	if !r.isDown.Load() {
		claims, err := r.primary.GetClaims(ctx, fingerprint)
		if err == nil {
			return claims, nil
		}
		r.markDown(err)
	}

	// Try to recover after a minute.
	if r.isDown.Load() && time.Since(time.Unix(r.lastCheck.Load(), 0)) > time.Minute {
		claims, err := r.primary.GetClaims(ctx, fingerprint)
		if err == nil {
			r.isDown.Store(false)
			return claims, nil
		}
		r.lastCheck.Store(time.Now().Unix())
	}

	return r.fallback.GetClaims(ctx, fingerprint)
}

func (r *FailoverClaimsCache) SetClaims(ctx context.Context, fingerprint string, claims *models.Claims, ttl time.Duration) error {
	if !r.isDown.Load() {
		err := r.primary.SetClaims(ctx, fingerprint, claims, ttl)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetClaims(ctx, fingerprint, claims, ttl)
}

func (r *FailoverClaimsCache) markDown(err error) {
	if r.logger != nil {
		r.logger.Error().Err(err).Msg("primary claims cache failed, falling back to memory")
	}
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().Unix())
}
