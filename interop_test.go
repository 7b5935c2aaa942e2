package jwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	golangjwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteropHS256(t *testing.T) {
	secret := []byte("interop-secret")

	token, err := Sign(NewHS256(secret), map[string]any{
		"sub": "interop",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	parsed, err := golangjwt.Parse(token, func(*golangjwt.Token) (any, error) {
		return secret, nil
	}, golangjwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(golangjwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "interop", claims["sub"])

	theirs, err := golangjwt.NewWithClaims(golangjwt.SigningMethodHS256, golangjwt.MapClaims{
		"sub": "from-the-other-side",
	}).SignedString(secret)
	require.NoError(t, err)

	assert.True(t, Verify(theirs, NewHS256(secret)))

	decoded, err := DecodeClaims[map[string]any](theirs)
	require.NoError(t, err)
	assert.Equal(t, "from-the-other-side", decoded["sub"])
}

func TestInteropRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pair := encodeKeyPair(t, key, &key.PublicKey)
	alg := NewRS256(pair.private, pair.public)

	mine, err := Sign(alg, map[string]any{"sub": "rsa"})
	require.NoError(t, err)
	parsed, err := golangjwt.Parse(mine, func(*golangjwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, golangjwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	theirs, err := golangjwt.NewWithClaims(golangjwt.SigningMethodRS256, golangjwt.MapClaims{"sub": "rsa"}).SignedString(key)
	require.NoError(t, err)
	assert.True(t, Verify(theirs, alg))
}

func TestInteropPS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pair := encodeKeyPair(t, key, &key.PublicKey)
	alg := NewPS256(pair.private, pair.public)

	mine, err := Sign(alg, map[string]any{"sub": "pss"})
	require.NoError(t, err)
	parsed, err := golangjwt.Parse(mine, func(*golangjwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, golangjwt.WithValidMethods([]string{"PS256"}))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	theirs, err := golangjwt.NewWithClaims(golangjwt.SigningMethodPS256, golangjwt.MapClaims{"sub": "pss"}).SignedString(key)
	require.NoError(t, err)
	assert.True(t, Verify(theirs, alg))
}

func TestInteropES256(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	pair := encodeKeyPair(t, key, &key.PublicKey)
	alg := NewES256(pair.private, pair.public)

	mine, err := Sign(alg, map[string]any{"sub": "ecdsa"})
	require.NoError(t, err)
	parsed, err := golangjwt.Parse(mine, func(*golangjwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, golangjwt.WithValidMethods([]string{"ES256"}))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	theirs, err := golangjwt.NewWithClaims(golangjwt.SigningMethodES256, golangjwt.MapClaims{"sub": "ecdsa"}).SignedString(key)
	require.NoError(t, err)
	assert.True(t, Verify(theirs, alg))
}

func TestInteropES512(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
	require.NoError(t, err)
	pair := encodeKeyPair(t, key, &key.PublicKey)
	alg := NewES512(pair.private, pair.public)

	mine, err := Sign(alg, map[string]any{"sub": "p521"})
	require.NoError(t, err)
	parsed, err := golangjwt.Parse(mine, func(*golangjwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, golangjwt.WithValidMethods([]string{"ES512"}))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	theirs, err := golangjwt.NewWithClaims(golangjwt.SigningMethodES512, golangjwt.MapClaims{"sub": "p521"}).SignedString(key)
	require.NoError(t, err)
	assert.True(t, Verify(theirs, alg))
}
