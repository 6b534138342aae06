package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/timetable/scheduler/internal/app/auth"
	"github.com/timetable/scheduler/internal/app/controllers"
	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/app/models/dto"
	"github.com/timetable/scheduler/internal/app/repositories"
	"github.com/timetable/scheduler/internal/app/routes"
	"github.com/timetable/scheduler/internal/app/services"
	"github.com/timetable/scheduler/internal/middleware"
	"github.com/timetable/scheduler/internal/pkg/auth"
	"github.com/timetable/scheduler/internal/pkg/validation"
	"github.com/timetable/scheduler/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router *gin.Engine
	store  *testutil.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.RegisterWithGin()

	lgr := zerolog.Nop()
	store := testutil.NewStore()
	jwtService := testutil.NewJWTService(testutil.NewClock())
	authService := services.NewAuthService(store, store, nil, jwtService, lgr)
	advisorService := services.NewAdvisorService(store, store, appauth.NewAuthorizationService(store), lgr).
		WithPasswordHasher(func(p string) (string, error) { return auth.HashPasswordWithCost(p, bcrypt.MinCost) })

	departments := services.NewResourceService[models.Department]("department",
		testutil.NewResources(repositories.DepartmentTable), lgr)
	courses := services.NewResourceService[models.Course]("course",
		testutil.NewResources(repositories.CourseTable), lgr)

	ctrl := routes.Controllers{
		Auth:     controllers.NewAuthController(authService, lgr),
		Advisors: controllers.NewAdvisorController(advisorService, lgr),
		Health:   controllers.NewHealthController(map[string]controllers.Pinger{}),
		Resources: []routes.Resource{
			{Path: "/departments", Controller: controllers.NewResourceController(departments, lgr)},
			{Path: "/courses", Controller: controllers.NewResourceController(courses, lgr)},
		},
	}

	router := gin.New()
	routes.SetupRouter(router, ctrl, middleware.NewAuthMiddleware(jwtService, authService))
	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, path, username, password string) dto.LoginResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, path, "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/departments", "/api/v1/courses/1", "/api/v1/advisors"} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := s.do(t, http.MethodGet, "/api/v1/departments", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, w).Error.Code)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	s := newTestServer(t)
	s.store.AddDEO("deo.cs", "deo-pass")
	tokens := s.login(t, "/api/v1/auth/deo/login", "deo.cs", "deo-pass")

	w := s.do(t, http.MethodGet, "/api/v1/departments", tokens.Refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInactiveUserIsRejected(t *testing.T) {
	s := newTestServer(t)
	user, _ := s.store.AddDEO("deo.cs", "deo-pass")
	tokens := s.login(t, "/api/v1/auth/deo/login", "deo.cs", "deo-pass")

	require.NoError(t, s.store.DeleteUser(context.Background(), user.ID))
	w := s.do(t, http.MethodGet, "/api/v1/departments", tokens.Access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDEOLogin(t *testing.T) {
	s := newTestServer(t)
	s.store.AddDEO("deo.cs", "deo-pass")
	s.store.AddUser("adv", "adv-pass", models.RoleAdvisor, true)

	resp := s.login(t, "/api/v1/auth/deo/login", "deo.cs", "deo-pass")
	assert.Equal(t, "deo", resp.Role)

	w := s.do(t, http.MethodPost, "/api/v1/auth/deo/login", "", dto.LoginRequest{Username: "adv", Password: "adv-pass"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, middleware.MsgNotDEO, decodeError(t, w).Error.Message)

	w = s.do(t, http.MethodPost, "/api/v1/auth/deo/login", "", dto.LoginRequest{Username: "deo.cs", Password: "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, middleware.MsgInvalidCredentials, decodeError(t, w).Error.Message)

	w = s.do(t, http.MethodPost, "/api/v1/auth/deo/login", "", map[string]string{"username": "deo.cs"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdvisorLoginAcceptsAnyRole(t *testing.T) {
	s := newTestServer(t)
	s.store.AddDEO("deo.cs", "deo-pass")

	resp := s.login(t, "/api/v1/auth/advisor/login", "deo.cs", "deo-pass")
	assert.Equal(t, "deo", resp.Role)
}

func TestLogoutFlow(t *testing.T) {
	s := newTestServer(t)
	s.store.AddUser("adv", "adv-pass", models.RoleAdvisor, true)
	tokens := s.login(t, "/api/v1/auth/advisor/login", "adv", "adv-pass")

	w := s.do(t, http.MethodPost, "/api/v1/auth/advisor/logout", tokens.Access, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, middleware.MsgRefreshMissing, decodeError(t, w).Error.Message)

	w = s.do(t, http.MethodPost, "/api/v1/auth/advisor/logout", tokens.Access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/advisor/logout", tokens.Access, dto.LogoutRequest{RefreshToken: tokens.Refresh})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":"Successfully logged out."}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/auth/advisor/logout", tokens.Access, dto.LogoutRequest{RefreshToken: tokens.Refresh})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, middleware.MsgTokenInvalid, decodeError(t, w).Error.Message)

	w = s.do(t, http.MethodPost, "/api/v1/auth/token/refresh", "", dto.RefreshTokenRequest{Refresh: tokens.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenRefresh(t *testing.T) {
	s := newTestServer(t)
	s.store.AddUser("adv", "adv-pass", models.RoleAdvisor, true)
	tokens := s.login(t, "/api/v1/auth/advisor/login", "adv", "adv-pass")

	w := s.do(t, http.MethodPost, "/api/v1/auth/token/refresh", "", dto.RefreshTokenRequest{Refresh: tokens.Refresh})
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.AccessTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = s.do(t, http.MethodGet, "/api/v1/departments", resp.Access, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResourceCRUD(t *testing.T) {
	s := newTestServer(t)
	s.store.AddUser("adv", "adv-pass", models.RoleAdvisor, true)
	token := s.login(t, "/api/v1/auth/advisor/login", "adv", "adv-pass").Access

	w := s.do(t, http.MethodPost, "/api/v1/courses", token, map[string]any{
		"code": "CS-201", "name": "Data Structures", "credit_hours": 3, "course_type": "theory",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)

	t.Run("list reports the total", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/courses", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get(controllers.TotalCountHeader))
		var list []models.Course
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "CS-201", list[0].Code)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/departments", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("create validates", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/courses", token, map[string]any{"name": "No code", "course_type": "theory"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Error.Code)
	})

	t.Run("patch keeps untouched fields", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/v1/courses/1", token, map[string]any{"credit_hours": 4})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var patched models.Course
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
		assert.Equal(t, 4, patched.CreditHours)
		assert.Equal(t, "Data Structures", patched.Name)
		assert.Equal(t, "CS-201", patched.Code)
	})

	t.Run("put requires every field", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/courses/1", token, map[string]any{"credit_hours": 2})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodPut, "/api/v1/courses/1", token, map[string]any{
			"code": "CS-202", "name": "Algorithms", "course_type": "lab",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var replaced models.Course
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replaced))
		assert.Equal(t, int64(1), replaced.ID)
		assert.Equal(t, 0, replaced.CreditHours)
	})

	t.Run("ids must be positive integers", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/courses/abc", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "id", decodeError(t, w).Error.Field)
	})

	t.Run("missing item", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/courses/42", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/v1/courses/1", token, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodDelete, "/api/v1/courses/1", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdvisorEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.store.AddDEO("deo.cs", "deo-pass")
	s.store.AddUser("plain", "plain-pass", models.RoleAdvisor, true)
	deoToken := s.login(t, "/api/v1/auth/deo/login", "deo.cs", "deo-pass").Access
	plainToken := s.login(t, "/api/v1/auth/advisor/login", "plain", "plain-pass").Access

	w := s.do(t, http.MethodPost, "/api/v1/advisors", deoToken, map[string]any{
		"username": "advisor.one", "password": "adv-pass", "first_name": "Ayesha", "faculty": "Computing",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.AdvisorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "advisor.one", created.User.Username)
	assert.Equal(t, "advisor", created.User.Role)
	require.NotNil(t, created.DEO)
	assert.NotContains(t, w.Body.String(), "password")

	t.Run("new advisor can log in", func(t *testing.T) {
		resp := s.login(t, "/api/v1/auth/advisor/login", "advisor.one", "adv-pass")
		assert.Equal(t, "advisor", resp.Role)
	})

	t.Run("non deo sees nothing", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/advisors", plainToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())

		w = s.do(t, http.MethodPost, "/api/v1/advisors", plainToken, map[string]any{"username": "x", "password": "p"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("deo lists advisors", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/advisors", deoToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list []dto.AdvisorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/advisors", deoToken, map[string]any{"username": "plain", "password": "p"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "username", decodeError(t, w).Error.Field)
	})

	t.Run("patch keeps untouched fields", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/v1/advisors/"+strconv.FormatInt(created.ID, 10), deoToken, map[string]any{"last_name": "Khan"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var patched dto.AdvisorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
		assert.Equal(t, "Ayesha", patched.User.FirstName)
		assert.Equal(t, "Khan", patched.User.LastName)
		require.NotNil(t, patched.Faculty)
		assert.Equal(t, "Computing", *patched.Faculty)
	})

	t.Run("delete removes the account", func(t *testing.T) {
		before := s.store.UserCount()
		w := s.do(t, http.MethodDelete, "/api/v1/advisors/"+strconv.FormatInt(created.ID, 10), deoToken, nil)
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, before-1, s.store.UserCount())

		w = s.do(t, http.MethodPost, "/api/v1/auth/advisor/login", "", dto.LoginRequest{Username: "advisor.one", Password: "adv-pass"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
