// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/timetable/scheduler/internal/app/models/dto"
	"github.com/timetable/scheduler/internal/app/services"
	"github.com/timetable/scheduler/internal/middleware"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// DEOLogin handles DEO login
// @Summary DEO login
// @Description Authenticates a user and issues a token pair. Only users with the DEO role are accepted.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Token pair issued"
// @Failure 400 {object} dto.ErrorResponse "Unable to log in with provided credentials"
// @Failure 403 {object} dto.ErrorResponse "Only users with DEO role can log in"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/deo/login [post]
func (c *AuthController) DEOLogin(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.LoginDEO(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Debug().Err(err).Str("username", req.Username).Msg("DEO login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// AdvisorLogin handles advisor login
// @Summary Advisor login
// @Description Authenticates a user and issues a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Token pair issued"
// @Failure 400 {object} dto.ErrorResponse "Unable to log in with provided credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/advisor/login [post]
func (c *AuthController) AdvisorLogin(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.LoginAdvisor(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Debug().Err(err).Str("username", req.Username).Msg("Advisor login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Logout blacklists the supplied refresh token
// @Summary Logout
// @Description Blacklists a refresh token. Serves both the DEO and the advisor logout routes.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LogoutRequest true "Refresh token"
// @Success 200 {object} dto.LogoutResponse "Successfully logged out"
// @Failure 400 {object} dto.ErrorResponse "Refresh token not provided, or token is invalid or expired"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/deo/logout [post]
// @Router /auth/advisor/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.LogoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.AbortWithError(ctx, http.StatusBadRequest, dto.HandleValidationError(err))
		return
	}

	err := c.authService.Logout(ctx.Request.Context(), req.RefreshToken)
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, dto.LogoutResponse{Success: "Successfully logged out."})
	case errors.Is(err, apperrors.ErrRefreshTokenMissing):
		middleware.AbortWithError(ctx, http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeRefreshMissing, middleware.MsgRefreshMissing))
	case services.IsTokenError(err):
		c.logger.Debug().Err(err).Msg("Logout with unusable token")
		middleware.AbortWithError(ctx, http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, middleware.MsgTokenInvalid))
	default:
		c.logger.Error().Err(err).Msg("Logout failed")
		middleware.AbortWithError(ctx, http.StatusInternalServerError,
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, err.Error()))
	}
}

// RefreshToken issues a new access token
// @Summary Refresh access token
// @Description Exchanges a valid, non-blacklisted refresh token for a new access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.AccessTokenResponse "New access token"
// @Failure 400 {object} dto.ErrorResponse "Refresh token not provided"
// @Failure 401 {object} dto.ErrorResponse "Token is invalid or expired"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/token/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.RefreshAccessToken(ctx.Request.Context(), req.Refresh)
	if err != nil {
		if services.IsTokenError(err) {
			middleware.AbortWithError(ctx, http.StatusUnauthorized,
				dto.NewErrorDetail(dto.ErrorCodeInvalidToken, middleware.MsgTokenInvalid))
			return
		}
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
