package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime for session tokens minted by the
// platform identity service. Kept here so tests and the dev token helper use
// the same value the platform does.
const DefaultSessionTTL = 12 * time.Hour

// Claims are the session-token claims the identity service mints for every
// signed-in user. The authorization service only ever verifies them; sub and
// email are the two fields every guarded operation depends on.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user, bound at sign-in. Invitation
	// acceptance compares this against the invited address.
	Email string `json:"email,omitempty"`

	// DisplayName is the user's preferred display name.
	DisplayName string `json:"display_name,omitempty"`
}

// NewSessionClaims builds minimally-correct session claims.
func NewSessionClaims(subject, email, displayName, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:       email,
		DisplayName: displayName,
	}
}

// ValidateIssuer checks the iss claim against the expected value.
// An empty expected issuer enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}
