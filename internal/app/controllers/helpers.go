package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	appauth "github.com/timetable/scheduler/internal/app/auth"
	"github.com/timetable/scheduler/internal/app/models/dto"
	"github.com/timetable/scheduler/internal/middleware"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
)

// parseID reads the :id path parameter, writing a 400 response when it is not a positive integer.
func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid ID").
			WithField("id").
			WithDetails("ID must be a positive integer")
		middleware.AbortWithError(ctx, http.StatusBadRequest, detail)
		return 0, false
	}
	return id, true
}

// bindJSON binds the request body, writing a 400 response on failure.
func bindJSON(ctx *gin.Context, obj any) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		middleware.AbortWithError(ctx, http.StatusBadRequest, dto.HandleValidationError(err))
		return false
	}
	return true
}

// mergeBody returns a function that overlays the raw request body onto a value,
// leaving fields absent from the body untouched.
func mergeBody[T any](ctx *gin.Context) (func(*T) error, bool) {
	raw, err := ctx.GetRawData()
	if err != nil {
		middleware.AbortWithError(ctx, http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format").WithDetails(err.Error()))
		return nil, false
	}
	return func(target *T) error {
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return apperrors.NewCustomError(apperrors.ErrBadRequest, fmt.Sprintf("Invalid request format: %v", err))
		}
		return nil
	}, true
}

// principal returns the authenticated caller, writing a 401 response when absent.
func principal(ctx *gin.Context) (appauth.Principal, bool) {
	p, ok := appauth.CurrentPrincipal(ctx)
	if !ok {
		middleware.AbortWithError(ctx, http.StatusUnauthorized,
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication credentials were not provided."))
		return appauth.Principal{}, false
	}
	return p, true
}
