package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timetable/scheduler/internal/app/models/dto"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
)

func handle(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleAPIError(c, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusBadRequest, dto.ErrorCodeInvalidCredentials},
		{"refresh missing", apperrors.ErrRefreshTokenMissing, http.StatusBadRequest, dto.ErrorCodeRefreshMissing},
		{"invalid reference", apperrors.NewCustomError(apperrors.ErrInvalidReference, "Invalid pk - object does not exist."), http.StatusBadRequest, dto.ErrorCodeResourceInvalid},
		{"duplicate", apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "rooms with this value already exists."), http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"username taken", apperrors.ErrUsernameTaken, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"validation", apperrors.NewValidationError("password", "This field is required."), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"not deo", apperrors.ErrNotDEO, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"permission", fmt.Errorf("%w: no profile", apperrors.ErrPermissionDenied), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"not found", fmt.Errorf("%w: no rows", apperrors.ErrResourceNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"advisor not found", apperrors.ErrAdvisorNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"revoked", apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := handle(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleAPIErrorMessages(t *testing.T) {
	_, body := handle(t, apperrors.ErrNotDEO)
	assert.Equal(t, MsgNotDEO, body.Error.Message)

	_, body = handle(t, apperrors.ErrInvalidCredentials)
	assert.Equal(t, MsgInvalidCredentials, body.Error.Message)

	_, body = handle(t, apperrors.NewValidationError("password", "This field is required."))
	assert.Equal(t, "This field is required.", body.Error.Message)
	assert.Equal(t, "password", body.Error.Field)

	_, body = handle(t, apperrors.ErrUsernameTaken)
	assert.Equal(t, MsgUsernameTaken, body.Error.Message)
	assert.Equal(t, "username", body.Error.Field)
}
