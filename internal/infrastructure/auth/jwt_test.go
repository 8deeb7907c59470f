package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwtConfig(overrides func(*config.JWTConfig)) config.JWTConfig {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "square15-backend",
		MaxRefreshCount:        10,
	}
	if overrides != nil {
		overrides(&cfg)
	}
	return cfg
}

func principal() GenerateTokenInput {
	return GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "thandi",
		Role:     "manager",
	}
}

func TestNewJWTService_RefreshSecretFallsBackToAccessSecret(t *testing.T) {
	svc := NewJWTService(jwtConfig(func(c *config.JWTConfig) {
		c.RefreshSecret = ""
	}))

	assert.Equal(t, svc.accessSecret, svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := NewJWTService(jwtConfig(nil))

	pair, err := svc.GenerateTokenPair(principal())
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken(t *testing.T) {
	svc := NewJWTService(jwtConfig(nil))
	input := principal()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	assert.Equal(t, input.TenantID.String(), claims.TenantID)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Username, claims.Username)
	assert.Equal(t, input.Role, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	svc := NewJWTService(jwtConfig(func(c *config.JWTConfig) {
		c.AccessTokenExpiration = -time.Hour
	}))

	pair, err := svc.GenerateTokenPair(principal())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := NewJWTService(jwtConfig(nil))

	_, err := svc.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_WrongSigningSecret(t *testing.T) {
	issuing := NewJWTService(jwtConfig(nil))
	verifying := NewJWTService(jwtConfig(func(c *config.JWTConfig) {
		c.Secret = "a-completely-different-32-char-key"
	}))

	pair, err := issuing.GenerateTokenPair(principal())
	require.NoError(t, err)

	_, err = verifying.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenTypeEnforced(t *testing.T) {
	// Shared secret so only the token_type claim distinguishes the pair.
	svc := NewJWTService(jwtConfig(func(c *config.JWTConfig) {
		c.RefreshSecret = c.Secret
	}))

	pair, err := svc.GenerateTokenPair(principal())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.RefreshTokenPair(pair.AccessToken, "thandi", "staff")
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateRefreshToken(t *testing.T) {
	svc := NewJWTService(jwtConfig(nil))
	input := principal()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	assert.Equal(t, input.TenantID.String(), claims.TenantID)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Empty(t, claims.Username, "refresh tokens carry no username")
	assert.Zero(t, claims.RefreshCount)
}

func TestRefreshTokenPair_RotatesAndAppliesRole(t *testing.T) {
	svc := NewJWTService(jwtConfig(nil))
	input := principal()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	rotated, err := svc.RefreshTokenPair(pair.RefreshToken, input.Username, "admin")
	require.NoError(t, err)

	assert.NotEqual(t, pair.AccessToken, rotated.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	claims, err := svc.ValidateAccessToken(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestRefreshTokenPair_CountsRefreshes(t *testing.T) {
	svc := NewJWTService(jwtConfig(nil))
	input := principal()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	for want := 1; want <= 3; want++ {
		pair, err = svc.RefreshTokenPair(pair.RefreshToken, input.Username, input.Role)
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, want, claims.RefreshCount)
	}
}

func TestRefreshTokenPair_CeilingForcesRelogin(t *testing.T) {
	svc := NewJWTService(jwtConfig(func(c *config.JWTConfig) {
		c.MaxRefreshCount = 2
	}))
	input := principal()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	pair, err = svc.RefreshTokenPair(pair.RefreshToken, input.Username, input.Role)
	require.NoError(t, err)
	pair, err = svc.RefreshTokenPair(pair.RefreshToken, input.Username, input.Role)
	require.NoError(t, err)

	_, err = svc.RefreshTokenPair(pair.RefreshToken, input.Username, input.Role)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestRefreshTokenPair_RejectsGarbage(t *testing.T) {
	svc := NewJWTService(jwtConfig(nil))

	_, err := svc.RefreshTokenPair("not-a-jwt", "thandi", "staff")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_UUIDAccessors(t *testing.T) {
	svc := NewJWTService(jwtConfig(nil))
	input := principal()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	tenantID, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, input.TenantID, tenantID)

	userID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, userID)
}

func TestClaims_HasRole(t *testing.T) {
	claims := &Claims{Role: "manager"}

	assert.True(t, claims.HasRole("manager"))
	assert.True(t, claims.HasRole("admin", "manager"))
	assert.False(t, claims.HasRole("admin"))
	assert.False(t, claims.HasRole())
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	svc := NewJWTService(jwtConfig(nil))

	pair, err := svc.GenerateTokenPair(principal())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)

	expired := &Claims{}
	assert.Zero(t, expired.GetRemainingTTL())
}
