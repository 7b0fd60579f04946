package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redunap/config"
)

func setupJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	config.JwtConfig = config.JWTConfig{
		AccessExpire:  15 * time.Minute,
		RefreshExpire: 720 * time.Hour,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	setupJWT(t)

	token, err := GenerateAccessToken(42, "moderator")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "moderator", claims.Role)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	setupJWT(t)

	token, err := GenerateAccessToken(1, "user")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = ValidateJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJWT_ExpiredToken(t *testing.T) {
	setupJWT(t)
	config.JwtConfig.AccessExpire = -time.Minute

	token, err := GenerateAccessToken(1, "user")
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestExtractJWTFromHeader(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)

	_, err := ExtractJWTFromHeader(r)
	assert.ErrorIs(t, err, ErrNoAccessToken)

	r.Header.Set("Authorization", "Token abc")
	_, err = ExtractJWTFromHeader(r)
	assert.ErrorIs(t, err, ErrInvalidToken)

	r.Header.Set("Authorization", "Bearer abc.def.ghi")
	token, err := ExtractJWTFromHeader(r)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}
