package authn

import (
	"context"
	"fmt"
	"time"

	"safarinova/internal/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	Name        string `json:"name"`
	LoginMethod string `json:"login_method"`
}

// JWKSVerifier validates JWT credentials against the provider's published
// key set. Keys are cached and refreshed by keyfunc based on HTTP cache
// headers.
type JWKSVerifier struct {
	jwks keyfunc.Keyfunc
	log  zerolog.Logger
}

func NewJWKSVerifier(jwksURL string, logger *zerolog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, fmt.Errorf("jwks url cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(context.Background(), []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create jwks client: %w", err)
	}

	var verifierLogger zerolog.Logger
	if logger != nil {
		verifierLogger = logger.With().Str("component", "verifier").Logger()
	}
	verifierLogger.Info().Str("jwks_url", jwksURL).Msg("credential verifier initialized")

	return &JWKSVerifier{jwks: jwks, log: verifierLogger}, nil
}

// Verify parses and validates the credential, returning the claims it
// carries. Only RS256 and ES256 signatures are accepted.
func (v *JWKSVerifier) Verify(_ context.Context, credential string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(credential, &tokenClaims{}, v.jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("parse credential: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("credential is not valid")
	}

	switch token.Method.Alg() {
	case "RS256", "ES256":
	default:
		v.log.Warn().Str("algorithm", token.Method.Alg()).Msg("credential uses unexpected algorithm")
		return nil, fmt.Errorf("unexpected signing algorithm %s", token.Method.Alg())
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return nil, fmt.Errorf("failed to extract claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("credential missing subject")
	}

	expiresAt := time.Now().Add(time.Minute)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &models.Claims{
		Subject:     claims.Subject,
		Email:       claims.Email,
		Name:        claims.Name,
		LoginMethod: claims.LoginMethod,
		ExpiresAt:   expiresAt,
	}, nil
}
