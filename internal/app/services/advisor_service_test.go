package services_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/timetable/scheduler/internal/app/auth"
	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/app/models/dto"
	"github.com/timetable/scheduler/internal/app/services"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/auth"
	"github.com/timetable/scheduler/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func fastHash(password string) (string, error) {
	return auth.HashPasswordWithCost(password, bcrypt.MinCost)
}

func newAdvisorService(store *testutil.Store) *services.AdvisorService {
	authz := appauth.NewAuthorizationService(store)
	return services.NewAdvisorService(store, store, authz, zerolog.Nop()).WithPasswordHasher(fastHash)
}

func principalOf(u *models.User) appauth.Principal {
	return appauth.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func strPtr(s string) *string { return &s }

func TestAdvisorCreateAssignsCallerDEO(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	deoUser, deo := store.AddDEO("deo.cs", "p")
	svc := newAdvisorService(store)

	seniority := models.SeniorityLecturer
	year := models.YearSecond
	advisor, err := svc.Create(ctx, principalOf(deoUser), &dto.AdvisorRequest{
		Username:  "advisor.one",
		Password:  strPtr("adv-pass"),
		Email:     strPtr("one@university.edu"),
		FirstName: "Ayesha",
		Faculty:   strPtr("Computing"),
		Seniority: &seniority,
		Year:      &year,
	})
	require.NoError(t, err)

	require.NotNil(t, advisor.DEOID)
	assert.Equal(t, deo.ID, *advisor.DEOID)
	require.NotNil(t, advisor.User)
	assert.Equal(t, models.RoleAdvisor, advisor.User.Role)
	assert.True(t, advisor.User.IsActive)
	assert.True(t, auth.CheckPassword(advisor.User.Password, "adv-pass"))

	stored, err := store.GetAdvisorByID(ctx, advisor.ID)
	require.NoError(t, err)
	assert.Equal(t, "advisor.one", stored.User.Username)
	assert.Equal(t, "Computing", *stored.Faculty)
}

func TestAdvisorCreateRules(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	deoUser, _ := store.AddDEO("deo.cs", "p")
	adv := store.AddAdvisor("taken", "p", nil)
	svc := newAdvisorService(store)

	t.Run("non deo caller is forbidden", func(t *testing.T) {
		_, err := svc.Create(ctx, principalOf(adv.User), &dto.AdvisorRequest{Username: "x", Password: strPtr("p")})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("deo role without profile is forbidden", func(t *testing.T) {
		orphan := store.AddUser("orphan", "p", models.RoleDEO, true)
		_, err := svc.Create(ctx, principalOf(orphan), &dto.AdvisorRequest{Username: "x", Password: strPtr("p")})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("password required", func(t *testing.T) {
		_, err := svc.Create(ctx, principalOf(deoUser), &dto.AdvisorRequest{Username: "fresh"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Create(ctx, principalOf(deoUser), &dto.AdvisorRequest{Username: "taken", Password: strPtr("p")})
		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	})

	t.Run("invalid username", func(t *testing.T) {
		_, err := svc.Create(ctx, principalOf(deoUser), &dto.AdvisorRequest{Username: "has space", Password: strPtr("p")})
		assert.Error(t, err)
	})
}

func TestAdvisorVisibility(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	deoUser, deo := store.AddDEO("deo.cs", "p")
	adv := store.AddAdvisor("adv", "p", deo)
	store.AddAdvisor("adv2", "p", deo)
	svc := newAdvisorService(store)

	list, err := svc.List(ctx, principalOf(adv.User))
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	list, err = svc.List(ctx, principalOf(deoUser))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.Get(ctx, principalOf(adv.User), adv.ID)
	assert.ErrorIs(t, err, apperrors.ErrAdvisorNotFound)

	got, err := svc.Get(ctx, principalOf(deoUser), adv.ID)
	require.NoError(t, err)
	assert.Equal(t, "adv", got.User.Username)
}

func TestAdvisorPatchKeepsUntouchedFields(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	deoUser, deo := store.AddDEO("deo.cs", "p")
	svc := newAdvisorService(store)
	p := principalOf(deoUser)

	created, err := svc.Create(ctx, p, &dto.AdvisorRequest{
		Username: "adv", Password: strPtr("old-pass"), FirstName: "Bilal", Faculty: strPtr("Computing"),
	})
	require.NoError(t, err)

	patched, err := svc.Patch(ctx, p, created.ID, func(req *dto.AdvisorRequest) error {
		req.LastName = "Ahmed"
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "adv", patched.User.Username)
	assert.Equal(t, "Bilal", patched.User.FirstName)
	assert.Equal(t, "Ahmed", patched.User.LastName)
	assert.Equal(t, "Computing", *patched.Faculty)
	assert.Equal(t, deo.ID, *patched.DEOID)
	assert.True(t, auth.CheckPassword(patched.User.Password, "old-pass"))
}

func TestAdvisorUpdateChangesPassword(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	deoUser, deo := store.AddDEO("deo.cs", "p")
	adv := store.AddAdvisor("adv", "old", deo)
	store.AddAdvisor("other", "p", deo)
	svc := newAdvisorService(store)
	p := principalOf(deoUser)

	updated, err := svc.Update(ctx, p, adv.ID, &dto.AdvisorRequest{Username: "adv.renamed", Password: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, "adv.renamed", updated.User.Username)

	user, err := store.GetUserByUsername(ctx, "adv.renamed")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(user.Password, "new"))

	_, err = svc.Update(ctx, p, adv.ID, &dto.AdvisorRequest{Username: "other"})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	_, err = svc.Update(ctx, principalOf(adv.User), adv.ID, &dto.AdvisorRequest{Username: "x"})
	assert.ErrorIs(t, err, apperrors.ErrAdvisorNotFound)
}

func TestAdvisorDeleteRemovesUser(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	deoUser, deo := store.AddDEO("deo.cs", "p")
	adv := store.AddAdvisor("adv", "p", deo)
	svc := newAdvisorService(store)

	require.Equal(t, 2, store.UserCount())
	require.NoError(t, svc.Delete(context.Background(), principalOf(deoUser), adv.ID))

	assert.Equal(t, 0, store.AdvisorCount())
	assert.Equal(t, 1, store.UserCount())
	_, err := store.GetUserByID(ctx, adv.UserID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	err = svc.Delete(ctx, principalOf(deoUser), adv.ID)
	assert.ErrorIs(t, err, apperrors.ErrAdvisorNotFound)
}

func TestRequestFromAdvisor(t *testing.T) {
	email := "a@b.edu"
	a := &models.Advisor{
		Faculty: strPtr("Computing"),
		User:    &models.User{Username: "adv", Email: &email, FirstName: "F", LastName: "L"},
	}

	req := services.RequestFromAdvisor(a)
	assert.Equal(t, "adv", req.Username)
	assert.Equal(t, &email, req.Email)
	assert.Equal(t, "F", req.FirstName)
	assert.Equal(t, "L", req.LastName)
	assert.Nil(t, req.Password)
	assert.Equal(t, "Computing", *req.Faculty)
}
