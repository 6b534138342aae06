package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appauth "github.com/timetable/scheduler/internal/app/auth"
	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/app/models/dto"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/auth"
)

// UserLookup loads the active user behind a token.
type UserLookup interface {
	LookupActiveUser(ctx context.Context, userID int64) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      UserLookup
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// JWTAuth validates the bearer access token and stores the caller in the context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication credentials were not provided.")
			AbortWithError(c, http.StatusUnauthorized, detail)
			return
		}

		// Some clients wrap the header value in quotes.
		tokenString, err := auth.ExtractBearerToken(strings.Trim(authHeader, "\"'"))
		if err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication credentials were not provided.").
				WithDetails("Invalid token format")
			AbortWithError(c, http.StatusUnauthorized, detail)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString, auth.TokenTypeAccess)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
			}
			detail := dto.NewErrorDetail(errorCode, "Given token not valid for any token type")
			AbortWithError(c, http.StatusUnauthorized, detail)
			return
		}

		user, err := m.users.LookupActiveUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUserNotFound, apperrors.ErrAccountDisabled) {
				detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not found or inactive")
				AbortWithError(c, http.StatusUnauthorized, detail)
				return
			}
			HandleAPIError(c, err)
			return
		}

		appauth.SetPrincipal(c, appauth.Principal{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
		})

		c.Next()
	}
}
