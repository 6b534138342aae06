package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/timetable/scheduler/internal/app/models/dto"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/logger"
)

// Messages shown to API clients.
const (
	MsgInvalidCredentials = "Unable to log in with provided credentials."
	MsgNotDEO             = "Access denied. Only users with DEO role can log in."
	MsgRefreshMissing     = "Refresh token not provided."
	MsgTokenInvalid       = "Token is invalid or expired."
	MsgNotFound           = "Not found."
	MsgPermissionDenied   = "You do not have permission to perform this action."
	MsgInvalidReference   = "Invalid pk - object does not exist."
	MsgUsernameTaken      = "A user with that username already exists."
)

// AbortWithError writes an error envelope and aborts the chain.
func AbortWithError(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// HandleAPIError maps an error onto a status code and error envelope.
func HandleAPIError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		AbortWithError(c, http.StatusBadRequest, dto.HandleValidationError(verrs))
		return
	}

	var custom *apperrors.CustomError
	hasCustom := errors.As(err, &custom)
	withCustom := func(detail *dto.ErrorDetail) *dto.ErrorDetail {
		if hasCustom {
			if custom.Message != "" {
				detail.Message = custom.Message
			}
			if custom.Details != nil {
				detail = detail.WithDetails(custom.Details)
				if field, ok := custom.Details["field"].(string); ok {
					detail = detail.WithField(field)
				}
			}
		}
		return detail
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidReference):
		AbortWithError(c, http.StatusBadRequest, withCustom(dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, MsgInvalidReference)))
	case errors.Is(err, apperrors.ErrUsernameTaken):
		AbortWithError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, MsgUsernameTaken).WithField("username"))
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		AbortWithError(c, http.StatusBadRequest, withCustom(dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists")))
	case errors.Is(err, apperrors.ErrValidationFailed):
		AbortWithError(c, http.StatusBadRequest, withCustom(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		AbortWithError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, MsgInvalidCredentials))
	case errors.Is(err, apperrors.ErrRefreshTokenMissing):
		AbortWithError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeRefreshMissing, MsgRefreshMissing))
	case errors.Is(err, apperrors.ErrBadRequest):
		AbortWithError(c, http.StatusBadRequest, withCustom(dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Bad request")))
	case errors.Is(err, apperrors.ErrNotDEO):
		AbortWithError(c, http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, MsgNotDEO))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		AbortWithError(c, http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, MsgPermissionDenied))
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrAdvisorNotFound, apperrors.ErrUserNotFound):
		AbortWithError(c, http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, MsgNotFound))
	case errors.Is(err, apperrors.ErrTokenExpired):
		AbortWithError(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, MsgTokenInvalid))
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked, apperrors.ErrInvalidFormat, apperrors.ErrTokenNotFound, apperrors.ErrAccountDisabled):
		AbortWithError(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, MsgTokenInvalid))
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		AbortWithError(c, http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"))
	}
}
