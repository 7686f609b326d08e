package security_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	"pinstack-feed-service/internal/infrastructure/outbound/security"
)

func TestBcryptHasher(t *testing.T) {
	hasher := security.NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.NotContains(t, hash, "secret")

	assert.NoError(t, hasher.Compare(hash, "secret"))
	assert.ErrorIs(t, hasher.Compare(hash, "wrong"), custom_errors.ErrInvalidCredentials)
	assert.ErrorIs(t, hasher.Compare("not-a-hash", "secret"), custom_errors.ErrInvalidCredentials)
}

func TestJWTProvider_RoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	provider, err := security.NewJWTProvider([]string{"s1"}, time.Hour)
	require.NoError(t, err)
	provider.WithClock(func() time.Time { return now })

	token, expiresAt, err := provider.Issue(model.TokenClaims{UserID: "u1", Email: "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	got, err := provider.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, model.UserID("u1"), got.UserID)
	assert.Equal(t, "a@b.com", got.Email)
}

func TestJWTProvider_Expiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	provider, err := security.NewJWTProvider([]string{"s1"}, time.Hour)
	require.NoError(t, err)
	provider.WithClock(func() time.Time { return now })

	token, _, err := provider.Issue(model.TokenClaims{UserID: "u1"})
	require.NoError(t, err)

	provider.WithClock(func() time.Time { return now.Add(59 * time.Minute) })
	_, err = provider.Verify(token)
	assert.NoError(t, err)

	provider.WithClock(func() time.Time { return now.Add(61 * time.Minute) })
	_, err = provider.Verify(token)
	assert.ErrorIs(t, err, custom_errors.ErrInvalidToken)
}

func TestJWTProvider_Rejects(t *testing.T) {
	provider, err := security.NewJWTProvider([]string{"s1"}, time.Hour)
	require.NoError(t, err)
	other, err := security.NewJWTProvider([]string{"other"}, time.Hour)
	require.NoError(t, err)

	foreign, _, err := other.Issue(model.TokenClaims{UserID: "u1"})
	require.NoError(t, err)

	good, _, err := provider.Issue(model.TokenClaims{UserID: "u1"})
	require.NoError(t, err)
	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA"

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": "u1", "exp": time.Now().Add(time.Hour).Unix()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"malformed":      "not.a.token",
		"foreign secret": foreign,
		"bad signature":  tampered,
		"alg none":       none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := provider.Verify(token)
			assert.ErrorIs(t, err, custom_errors.ErrInvalidToken)
		})
	}

	_, err = provider.Verify("")
	assert.ErrorIs(t, err, custom_errors.ErrNotAuthenticated)
}

func TestJWTProvider_Rotation(t *testing.T) {
	old, err := security.NewJWTProvider([]string{"old"}, time.Hour)
	require.NoError(t, err)
	rotated, err := security.NewJWTProvider([]string{"new", "old"}, time.Hour)
	require.NoError(t, err)

	token, _, err := old.Issue(model.TokenClaims{UserID: "u1"})
	require.NoError(t, err)
	got, err := rotated.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, model.UserID("u1"), got.UserID)

	fresh, _, err := rotated.Issue(model.TokenClaims{UserID: "u2"})
	require.NoError(t, err)
	_, err = old.Verify(fresh)
	assert.ErrorIs(t, err, custom_errors.ErrInvalidToken)
}

func TestNewJWTProvider_RequiresSecret(t *testing.T) {
	_, err := security.NewJWTProvider(nil, time.Hour)
	assert.Error(t, err)
	_, err = security.NewJWTProvider([]string{""}, time.Hour)
	assert.Error(t, err)
}
