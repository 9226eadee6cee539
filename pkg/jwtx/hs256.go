package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a raw session token and returns its claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

// HS256Verifier verifies session tokens signed with a shared HMAC secret.
// The identity service and this service are deployed together and share the
// secret via configuration, so asymmetric keys buy nothing here.
type HS256Verifier struct {
	secret []byte
	issuer string
}

func NewHS256Verifier(secret []byte, issuer string) *HS256Verifier {
	return &HS256Verifier{secret: secret, issuer: issuer}
}

// Verify parses and validates raw, returning the embedded claims.
func (v *HS256Verifier) Verify(raw string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrParse
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrParse
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" {
		return Claims{}, ErrSubject
	}

	return claims, nil
}

// SignHS256 mints a session token with the shared secret. The identity
// service owns token issuance in production; this exists for tests and the
// local dev token helper.
func SignHS256(claims Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// SignHS256At is SignHS256 with a fixed validity window, useful for building
// already-expired tokens in tests.
func SignHS256At(subject, email, displayName, issuer string, secret []byte, iat time.Time, ttl time.Duration) (string, error) {
	return SignHS256(NewSessionClaims(subject, email, displayName, issuer, ttl, iat), secret)
}
