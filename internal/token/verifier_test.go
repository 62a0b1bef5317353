package token

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-for-unit-tests-32byte"

func TestVerifier_ValidToken(t *testing.T) {
	signed, err := NewSigner(testSecret, "").Sign("alice", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeBearer, signed.TokenType)

	claims, err := NewVerifier(testSecret).Verify(signed.TokenString)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.WithinDuration(t, signed.ExpiresAt, claims.ExpiresAtTime(), time.Second)
	assert.False(t, claims.IssuedAtTime().IsZero())
}

func TestVerifier_WrongSecret(t *testing.T) {
	signed, err := NewSigner("another-secret", "").Sign("alice", time.Hour)
	require.NoError(t, err)

	_, err = NewVerifier(testSecret).Verify(signed.TokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifier_Expired(t *testing.T) {
	signed, err := NewSigner(testSecret, "").Sign("alice", -time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier(testSecret).Verify(signed.TokenString)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestVerifier_LeewayAcceptsRecentExpiry(t *testing.T) {
	signed, err := NewSigner(testSecret, "").Sign("alice", -5*time.Second)
	require.NoError(t, err)

	_, err = NewVerifier(testSecret, WithLeeway(time.Minute)).Verify(signed.TokenString)
	assert.NoError(t, err)
}

func TestVerifier_MissingExpiry(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"})
	raw, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewVerifier(testSecret).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifier_Issuer(t *testing.T) {
	signed, err := NewSigner(testSecret, "https://other.example").Sign("alice", time.Hour)
	require.NoError(t, err)

	v := NewVerifier(testSecret, WithIssuer("https://apigate.example"))
	_, err = v.Verify(signed.TokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)

	signed, err = NewSigner(testSecret, "https://apigate.example").Sign("alice", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(signed.TokenString)
	assert.NoError(t, err)
}

func TestVerifier_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	t.Run("none", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = NewVerifier(testSecret).Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("HS512", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).
			SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = NewVerifier(testSecret).Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("RS256", func(t *testing.T) {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
		require.NoError(t, err)

		_, err = NewVerifier(testSecret).Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestVerifier_Garbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c", "eyJhbGciOiJIUzI1NiJ9..."} {
		_, err := NewVerifier(testSecret).Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}

func TestVerifier_TamperedPayload(t *testing.T) {
	alice, err := NewSigner(testSecret, "").Sign("alice", time.Hour)
	require.NoError(t, err)
	mallory, err := NewSigner(testSecret, "").Sign("mallory", time.Hour)
	require.NoError(t, err)

	a := splitToken(alice.TokenString)
	m := splitToken(mallory.TokenString)
	forged := a[0] + "." + m[1] + "." + a[2]

	_, err = NewVerifier(testSecret).Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func splitToken(s string) []string {
	return strings.SplitN(s, ".", 3)
}
