package jwtx_test

import (
	"testing"
	"time"

	"github.com/classhubhq/classhub/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "classhub-identity"

var testSecret = []byte("test-secret-test-secret-test-sec")

func TestHS256VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	claims := jwtx.NewSessionClaims("user-1", "alice@example.com", "Alice", testIssuer, time.Hour, time.Now())
	raw, err := jwtx.SignHS256(claims, testSecret)
	require.NoError(t, err)

	verifier := jwtx.NewHS256Verifier(testSecret, testIssuer)
	got, err := verifier.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "Alice", got.DisplayName)
}

func TestHS256VerifyRejections(t *testing.T) {
	t.Parallel()

	verifier := jwtx.NewHS256Verifier(testSecret, testIssuer)

	t.Run("wrong secret", func(t *testing.T) {
		raw, err := jwtx.SignHS256At("user-1", "a@b.com", "", testIssuer, []byte("another-secret-another-secret-ab"), time.Now(), time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrParse)
	})

	t.Run("expired token", func(t *testing.T) {
		raw, err := jwtx.SignHS256At("user-1", "a@b.com", "", testIssuer, testSecret, time.Now().Add(-2*time.Hour), time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("token not yet valid", func(t *testing.T) {
		raw, err := jwtx.SignHS256At("user-1", "a@b.com", "", testIssuer, testSecret, time.Now().Add(2*time.Hour), time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		raw, err := jwtx.SignHS256At("user-1", "a@b.com", "", "someone-else", testSecret, time.Now(), time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("missing subject", func(t *testing.T) {
		raw, err := jwtx.SignHS256At("", "a@b.com", "", testIssuer, testSecret, time.Now(), time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrSubject)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrParse)
	})
}
