package identity

import (
	"context"
	"errors"
	"time"

	"github.com/square15/backend/internal/domain/identity"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig tunes the brute-force lockout.
type AuthServiceConfig struct {
	// MaxLoginAttempts is the number of consecutive failures before the
	// account locks for LockDuration.
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultAuthServiceConfig locks an account for 15 minutes after five
// consecutive failures.
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService implements login, token refresh, logout and password
// changes on top of the JWT service and the optional token blacklist.
type AuthService struct {
	userRepo   identity.UserRepository
	tenantRepo identity.TenantRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

func NewAuthService(
	userRepo identity.UserRepository,
	tenantRepo identity.TenantRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

// errBadCredentials deliberately does not say whether the tenant, the
// user or the password was wrong.
func errBadCredentials() error {
	return shared.NewDomainError("INVALID_CREDENTIALS", "Incorrect username or password")
}

// Login authenticates a user within a tenant and issues a token pair.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login requested",
		zap.String("tenant_code", input.TenantCode),
		zap.String("username", input.Username))

	tenant, err := s.tenantRepo.FindByCode(ctx, input.TenantCode)
	if err != nil || tenant == nil {
		s.logger.Warn("Login against unknown tenant", zap.String("tenant_code", input.TenantCode))
		return nil, errBadCredentials()
	}
	if !tenant.IsActive() {
		s.logger.Warn("Login against inactive tenant", zap.String("tenant_code", input.TenantCode))
		return nil, shared.NewDomainError("TENANT_INACTIVE", "This organisation is not active")
	}

	user, err := s.userRepo.FindByUsername(ctx, tenant.ID, input.Username)
	if err != nil || user == nil {
		s.logger.Warn("Login for unknown user", zap.String("username", input.Username))
		return nil, errBadCredentials()
	}

	if !user.CanLogin() {
		return nil, s.rejectInactive(user, input.Username)
	}

	if !user.VerifyPassword(input.Password) {
		return nil, s.recordFailure(ctx, user, input.Username)
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
	})
	if err != nil {
		s.logger.Error("Token pair generation failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Could not issue authentication tokens")
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Bookkeeping only, the login itself succeeded
		s.logger.Error("User row not saved after login", zap.Error(err))
	}

	s.logger.Info("Login succeeded",
		zap.String("username", input.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  toUserInfo(user),
	}, nil
}

// rejectInactive picks the right error for a user that may not log in.
func (s *AuthService) rejectInactive(user *identity.User, username string) error {
	switch {
	case user.IsLocked():
		s.logger.Warn("Login rejected, account locked", zap.String("username", username))
		return shared.NewDomainError("ACCOUNT_LOCKED", "Account locked, try again later or contact support")
	case user.Status == identity.UserStatusDeactivated:
		s.logger.Warn("Login rejected, account deactivated", zap.String("username", username))
		return shared.NewDomainError("ACCOUNT_DEACTIVATED", "This account has been deactivated")
	case user.Status == identity.UserStatusPending:
		s.logger.Warn("Login rejected, account pending", zap.String("username", username))
		return shared.NewDomainError("ACCOUNT_PENDING", "This account has not been activated yet")
	default:
		return shared.NewDomainError("ACCOUNT_INACTIVE", "This account is not active")
	}
}

// recordFailure bumps the failure counter, locking the account once the
// limit is reached, and returns the error to hand to the caller.
func (s *AuthService) recordFailure(ctx context.Context, user *identity.User, username string) error {
	locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("User row not saved after failed login", zap.Error(err))
	}

	if locked {
		s.logger.Warn("Account locked by failed attempts",
			zap.String("username", username),
			zap.Int("attempts", s.config.MaxLoginAttempts))
		return shared.NewDomainError("ACCOUNT_LOCKED", "Account locked after too many failed attempts")
	}

	s.logger.Warn("Password mismatch",
		zap.String("username", username),
		zap.Int("failed_attempts", user.FailedAttempts))
	return errBadCredentials()
}

// RefreshToken rotates a valid refresh token into a fresh token pair.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	refreshClaims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token rejected", zap.Error(err))
		return nil, mapTokenError(err)
	}

	userID, err := refreshClaims.GetUserUUID()
	if err != nil {
		s.logger.Error("Refresh token carries a bad user ID", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Token carries an invalid user ID")
	}

	// A logout-all invalidates every token issued before it
	if s.blacklist != nil {
		invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, refreshClaims.UserID, refreshClaims.GetIssuedAtTime())
		if err != nil {
			s.logger.Error("Token invalidation lookup failed", zap.Error(err))
		} else if invalidated {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user == nil {
		s.logger.Warn("Refresh for unknown user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User no longer exists")
	}

	if !user.CanLogin() {
		s.logger.Warn("Refresh rejected for inactive user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "This account is no longer active")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, user.Username, user.Role.String())
	if err != nil {
		s.logger.Warn("Token rotation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	s.logger.Info("Refresh token rotated", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the current session's tokens. Without a blacklist the
// tokens simply run out their TTL.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("Logout requested",
		zap.String("user_id", input.UserID.String()),
		zap.String("tenant_id", input.TenantID.String()),
		zap.Bool("all_sessions", input.AllSessions))

	if s.blacklist == nil {
		return nil
	}

	if input.JTI != "" && input.TokenTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.JTI, input.TokenTTL); err != nil {
			s.logger.Error("Token not blacklisted", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Could not revoke token")
		}
	}

	if input.AllSessions {
		ttl := s.jwtService.GetRefreshTokenExpiration()
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, input.UserID.String(), ttl); err != nil {
			s.logger.Error("User tokens not blacklisted", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Could not revoke sessions")
		}
	}

	return nil
}

// GetCurrentUser loads the profile behind the presented token.
func (s *AuthService) GetCurrentUser(ctx context.Context, input GetCurrentUserInput) (*CurrentUserResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil || user == nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User no longer exists")
	}

	return &CurrentUserResult{User: toUserInfo(user)}, nil
}

// ChangePassword verifies the old password, stores the new one and
// revokes every other session.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil || user == nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User no longer exists")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.logger.Error("User row not saved after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Could not update password")
	}

	// Open sessions still carry the old credentials
	if s.blacklist != nil {
		ttl := s.jwtService.GetRefreshTokenExpiration()
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, input.UserID.String(), ttl); err != nil {
			s.logger.Warn("Sessions not revoked after password change", zap.Error(err))
		}
	}

	s.logger.Info("Password changed", zap.String("user_id", input.UserID.String()))

	return nil
}

func toUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:                 user.ID,
		TenantID:           user.TenantID,
		Username:           user.Username,
		DisplayName:        user.GetDisplayNameOrUsername(),
		Email:              user.Email,
		Phone:              user.Phone,
		Role:               user.Role.String(),
		MustChangePassword: user.MustChangePassword,
	}
}

// mapTokenError translates the JWT service sentinels into domain errors
// the HTTP layer can map to status codes.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token expired, log in again")
	case errors.Is(err, auth.ErrInvalidToken):
		return shared.NewDomainError("TOKEN_INVALID", "Refresh token is not valid")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Refresh limit reached, log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Refresh token could not be validated")
	}
}
