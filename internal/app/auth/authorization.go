package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/logger"
)

// Context keys set by the JWT middleware.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "role"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   int64
	Username string
	Role     models.Role
}

// IsDEO reports whether the caller holds the DEO role.
func (p Principal) IsDEO() bool {
	return p.Role == models.RoleDEO
}

// CurrentPrincipal reads the caller placed in the gin context by the JWT middleware.
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return Principal{}, false
	}
	id, ok := userID.(int64)
	if !ok || id <= 0 {
		return Principal{}, false
	}
	return Principal{
		UserID:   id,
		Username: c.GetString(ContextUsername),
		Role:     models.Role(c.GetString(ContextRole)),
	}, true
}

// SetPrincipal stores p in the gin context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(ContextUserID, p.UserID)
	c.Set(ContextUsername, p.Username)
	c.Set(ContextRole, string(p.Role))
}

// DEOProfileStore looks up DEO profiles.
type DEOProfileStore interface {
	GetDEOByUserID(ctx context.Context, userID int64) (*models.DEO, error)
}

// AuthorizationService handles authorization operations
type AuthorizationService struct {
	profiles DEOProfileStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(profiles DEOProfileStore) *AuthorizationService {
	return &AuthorizationService{profiles: profiles}
}

// RequireDEO returns the caller's DEO profile, or apperrors.ErrPermissionDenied
// when the caller is not a DEO or has no DEO profile.
func (s *AuthorizationService) RequireDEO(ctx context.Context, p Principal) (*models.DEO, error) {
	if !p.IsDEO() {
		return nil, apperrors.ErrPermissionDenied
	}

	deo, err := s.profiles.GetDEOByUserID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDEOProfileAbsent) {
			logger.Warn().Int64("userID", p.UserID).Msg("DEO role without DEO profile")
			return nil, fmt.Errorf("%w: %v", apperrors.ErrPermissionDenied, err)
		}
		logger.Error().Err(err).Int64("userID", p.UserID).Msg("Error getting DEO profile")
		return nil, err
	}
	return deo, nil
}
