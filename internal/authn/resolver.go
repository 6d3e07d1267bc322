// Package authn resolves inbound credentials to identities. The result
// domain is total: every request yields either a user record or nil
// (anonymous). A missing, malformed, or expired credential is never an
// error here; it degrades to anonymous so the authorization policy always
// operates on a resolved identity.
package authn

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"safarinova/internal/directory"
	"safarinova/internal/domain"
	"safarinova/internal/models"

	"github.com/rs/zerolog"
)

type Resolver struct {
	verifier  domain.CredentialVerifier
	cache     domain.ClaimsCache
	directory *directory.Directory
	claimsTTL time.Duration
	log       zerolog.Logger
}

func NewResolver(
	verifier domain.CredentialVerifier,
	cache domain.ClaimsCache,
	dir *directory.Directory,
	claimsTTL time.Duration,
	logger *zerolog.Logger,
) *Resolver {
	if claimsTTL <= 0 {
		claimsTTL = models.DefaultClaimsTTL * time.Second
	}
	var resolverLogger zerolog.Logger
	if logger != nil {
		resolverLogger = logger.With().Str("component", "resolver").Logger()
	}
	return &Resolver{
		verifier:  verifier,
		cache:     cache,
		directory: dir,
		claimsTTL: claimsTTL,
		log:       resolverLogger,
	}
}

// Resolve turns a raw credential into a user record, or nil for
// anonymous. On success the directory record is refreshed, advancing
// last_signed_in. A down store also yields anonymous.
func (r *Resolver) Resolve(ctx context.Context, credential string) *models.User {
	if credential == "" || r.verifier == nil {
		return nil
	}

	claims := r.verifiedClaims(ctx, credential)
	if claims == nil {
		return nil
	}

	r.directory.Upsert(ctx, claims.Subject, models.UserAttrs{
		Email:       claims.Email,
		Name:        claims.Name,
		LoginMethod: claims.LoginMethod,
	})

	return r.directory.ByOpenID(ctx, claims.Subject)
}

func (r *Resolver) verifiedClaims(ctx context.Context, credential string) *models.Claims {
	fingerprint := fingerprint(credential)

	if r.cache != nil {
		cached, err := r.cache.GetClaims(ctx, fingerprint)
		if err == nil && cached != nil && time.Now().Before(cached.ExpiresAt) {
			return cached
		}
	}

	claims, err := r.verifier.Verify(ctx, credential)
	if err != nil {
		r.log.Debug().Err(err).Msg("credential verification failed, treating as anonymous")
		return nil
	}

	if r.cache != nil {
		ttl := r.claimsTTL
		if until := time.Until(claims.ExpiresAt); until < ttl {
			ttl = until
		}
		if ttl > 0 {
			if err := r.cache.SetClaims(ctx, fingerprint, claims, ttl); err != nil {
				r.log.Debug().Err(err).Msg("claims cache write failed")
			}
		}
	}

	return claims
}

func fingerprint(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])
}
