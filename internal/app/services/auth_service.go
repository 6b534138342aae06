package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/app/models/dto"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/auth"
	"github.com/timetable/scheduler/internal/pkg/cache"
	"github.com/timetable/scheduler/internal/pkg/helpers"
)

// AuthService handles authentication operations
type AuthService struct {
	users      UserStore
	tokens     TokenStore
	blacklist  cache.TokenBlacklist
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService. A nil blacklist disables the cache.
func NewAuthService(
	users UserStore,
	tokens TokenStore,
	blacklist cache.TokenBlacklist,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	if blacklist == nil {
		blacklist = cache.NoopBlacklist{}
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		blacklist:  blacklist,
		jwtService: jwtService,
		logger:     logger,
	}
}

// IsTokenError reports whether err means the supplied token cannot be used.
func IsTokenError(err error) bool {
	return apperrors.Is(err, apperrors.ErrTokenInvalid,
		apperrors.ErrTokenExpired,
		apperrors.ErrTokenRevoked,
		apperrors.ErrInvalidFormat,
		apperrors.ErrTokenNotFound,
	)
}

// LoginDEO authenticates a user and only issues tokens to DEOs.
func (s *AuthService) LoginDEO(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleDEO {
		s.logger.Warn().Str("username", user.Username).Str("role", string(user.Role)).Msg("Non-DEO login attempt on DEO endpoint")
		return nil, apperrors.ErrNotDEO
	}
	return s.issueTokens(ctx, user)
}

// LoginAdvisor authenticates any active user.
func (s *AuthService) LoginAdvisor(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) authenticate(ctx context.Context, req *dto.LoginRequest) (*models.User, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.LoginResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	now := s.jwtService.Now()
	if err := s.tokens.CreateOutstanding(ctx, &models.RefreshToken{
		JTI:       pair.RefreshJTI,
		UserID:    user.ID,
		ExpiresAt: pair.RefreshExpiresAt,
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("failed to record refresh token: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login")
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User logged in")

	return &dto.LoginResponse{
		Refresh:  pair.RefreshToken,
		Access:   pair.AccessToken,
		Username: user.Username,
		Role:     string(user.Role),
	}, nil
}

// Logout blacklists a refresh token. A token can only be blacklisted once.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return apperrors.ErrRefreshTokenMissing
	}

	claims, err := s.jwtService.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return err
	}

	if cached, err := s.blacklist.IsBlacklisted(ctx, claims.ID); err != nil {
		s.logger.Warn().Err(err).Msg("Blacklist cache lookup failed")
	} else if cached {
		return apperrors.ErrTokenRevoked
	}

	now := s.jwtService.Now()
	token := &models.RefreshToken{
		JTI:       claims.ID,
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.tokens.Blacklist(ctx, token, now); err != nil {
		return err
	}

	if err := s.blacklist.Blacklist(ctx, claims.ID, helpers.Remaining(token.ExpiresAt, now)); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to cache blacklisted token")
	}

	s.logger.Info().Int64("userID", claims.UserID).Msg("User logged out")
	return nil
}

// RefreshAccessToken issues a new access token for a valid, non-blacklisted refresh token.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.AccessTokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrRefreshTokenMissing
	}

	claims, err := s.jwtService.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	if cached, err := s.blacklist.IsBlacklisted(ctx, claims.ID); err == nil && cached {
		return nil, apperrors.ErrTokenRevoked
	}

	stored, err := s.tokens.GetByJTI(ctx, claims.ID)
	switch {
	case err == nil && stored.IsBlacklisted():
		return nil, apperrors.ErrTokenRevoked
	case err != nil && !errors.Is(err, apperrors.ErrTokenNotFound):
		return nil, fmt.Errorf("error checking refresh token: %w", err)
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrTokenInvalid
	}

	access, err := s.jwtService.GenerateAccessToken(claims)
	if err != nil {
		return nil, err
	}
	return &dto.AccessTokenResponse{Access: access}, nil
}

// CleanupExpiredTokens removes refresh tokens past their expiry.
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	deleted, err := s.tokens.CleanupExpired(ctx, s.jwtService.Now())
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("deleted", deleted).Msg("Flushed expired refresh tokens")
	return deleted, nil
}

// LookupActiveUser returns an active user or apperrors.ErrUserNotFound.
func (s *AuthService) LookupActiveUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return user, nil
}
