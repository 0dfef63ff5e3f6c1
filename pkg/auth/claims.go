// Package auth provides JWT-based authentication for cmo-engine.
// Tokens are issued by an external identity service and validated against the
// JWKS endpoints of trusted issuers.
package auth

import (
	"context"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
	// TokenKey is the context key for storing the raw JWT token string.
	TokenKey contextKey = "token"
)

// Audience is the aud value every accepted token must carry.
const Audience = "cmo-engine"

// Claims represents the JWT claims accepted by cmo-engine.
// Subject is the user the token speaks for.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// HasAudience reports whether the token was issued for cmo-engine.
func (c *Claims) HasAudience() bool {
	return slices.Contains(c.Audience, Audience)
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetToken retrieves the raw JWT token string from the request context.
// Returns empty string and false if token is not present.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
