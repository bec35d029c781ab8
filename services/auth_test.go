package services

import (
	"testing"
	"time"

	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
	assert.False(t, CheckPassword("", "correct horse"))

	_, err = HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	token, expires, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	id, role, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestTokenExpired(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := issuer.Issue(&models.User{ID: uuid.New(), Role: models.RoleUser})
	require.NoError(t, err)

	issuer.now = time.Now
	_, _, err = issuer.Parse(token)
	require.Error(t, err)
	assert.Equal(t, 401, errs.StatusOf(err))
	assert.Contains(t, err.Error(), "expired")
}

func TestTokenWrongSecretOrMethod(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	other, err := NewTokenIssuer("another-secret-of-decent-length", time.Hour)
	require.NoError(t, err)

	token, _, err := other.Issue(&models.User{ID: uuid.New(), Role: models.RoleAdmin})
	require.NoError(t, err)
	_, _, err = issuer.Parse(token)
	assert.True(t, errs.IsInvalidTokenError(err))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": uuid.NewString()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, _, err = issuer.Parse(unsigned)
	assert.True(t, errs.IsInvalidTokenError(err))

	_, _, err = issuer.Parse("garbage")
	assert.True(t, errs.IsInvalidTokenError(err))
}

func TestNewTokenIssuerRejectsShortSecret(t *testing.T) {
	_, err := NewTokenIssuer("short", time.Hour)
	assert.Error(t, err)
}
