package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logitrack/internal/core/security"
)

func newTestService(now time.Time) *JWTService {
	s := NewJWTService(DefaultJWTConfig("test-secret"))
	s.now = func() time.Time { return now }
	return s
}

func TestJWT_RoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newTestService(now)
	base := int64(2)

	token, expiresAt, err := s.GenerateAccessToken(Identity{
		UserID: "cmdr-2",
		Email:  "cmdr@example.mil",
		Role:   security.RoleBaseCommander,
		BaseID: &base,
	})
	require.NoError(t, err)
	assert.Equal(t, now.Add(15*time.Minute), expiresAt)

	user, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cmdr-2", user.UserID)
	assert.Equal(t, "base_commander", user.Role)
	require.NotNil(t, user.BaseID)
	assert.Equal(t, int64(2), *user.BaseID)
	assert.NotEmpty(t, user.SessionID)
}

func TestJWT_Expired(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newTestService(now)

	token, _, err := s.GenerateAccessToken(Identity{UserID: "admin", Role: security.RoleAdmin})
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(time.Hour) }
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_WrongSecret(t *testing.T) {
	now := time.Now()
	token, _, err := newTestService(now).GenerateAccessToken(Identity{UserID: "admin", Role: security.RoleAdmin})
	require.NoError(t, err)

	other := NewJWTService(DefaultJWTConfig("another-secret"))
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_RejectsUnknownRole(t *testing.T) {
	s := newTestService(time.Now())

	_, _, err := s.GenerateAccessToken(Identity{UserID: "x", Role: "quartermaster"})
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, _, err = s.GenerateAccessToken(Identity{UserID: "x", Role: security.RoleBaseCommander})
	assert.Error(t, err)

	// Signed with the right key but carrying a role the service does not know.
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "logitrack",
			Subject:   "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Role: "quartermaster",
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = s.ValidateToken(raw)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestParseBaseID(t *testing.T) {
	id, err := ParseBaseID("")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = ParseBaseID("3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), *id)

	_, err = ParseBaseID("-1")
	assert.Error(t, err)
}
