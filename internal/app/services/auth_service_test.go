package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/app/models/dto"
	"github.com/timetable/scheduler/internal/app/services"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/auth"
	"github.com/timetable/scheduler/internal/testutil"
)

type memoryBlacklist struct {
	jtis map[string]time.Duration
}

func (b *memoryBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := b.jtis[jti]
	return ok, nil
}

func (b *memoryBlacklist) Blacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.jtis[jti] = ttl
	return nil
}

func (b *memoryBlacklist) Ping(context.Context) error { return nil }

type authFixture struct {
	store     *testutil.Store
	clock     *testutil.Clock
	blacklist *memoryBlacklist
	service   *services.AuthService
}

func newAuthFixture() *authFixture {
	store := testutil.NewStore()
	clock := testutil.NewClock()
	blacklist := &memoryBlacklist{jtis: map[string]time.Duration{}}
	return &authFixture{
		store:     store,
		clock:     clock,
		blacklist: blacklist,
		service:   services.NewAuthService(store, store, blacklist, testutil.NewJWTService(clock), zerolog.Nop()),
	}
}

func login(username, password string) *dto.LoginRequest {
	return &dto.LoginRequest{Username: username, Password: password}
}

func TestLoginDEO(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.store.AddDEO("deo.cs", "deo-pass")
	f.store.AddUser("adv", "adv-pass", models.RoleAdvisor, true)

	t.Run("deo receives a token pair", func(t *testing.T) {
		resp, err := f.service.LoginDEO(ctx, login("deo.cs", "deo-pass"))
		require.NoError(t, err)
		assert.Equal(t, "deo.cs", resp.Username)
		assert.Equal(t, "deo", resp.Role)
		assert.NotEmpty(t, resp.Access)
		assert.NotEmpty(t, resp.Refresh)
	})

	t.Run("advisor is refused", func(t *testing.T) {
		_, err := f.service.LoginDEO(ctx, login("adv", "adv-pass"))
		assert.ErrorIs(t, err, apperrors.ErrNotDEO)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.service.LoginDEO(ctx, login("deo.cs", "nope"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.service.LoginDEO(ctx, login("ghost", "deo-pass"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestLoginAdvisor(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.store.AddUser("adv", "adv-pass", models.RoleAdvisor, true)
	f.store.AddUser("gone", "gone-pass", models.RoleAdvisor, false)
	f.store.AddDEO("deo.cs", "deo-pass")

	resp, err := f.service.LoginAdvisor(ctx, login("adv", "adv-pass"))
	require.NoError(t, err)
	assert.Equal(t, "advisor", resp.Role)

	resp, err = f.service.LoginAdvisor(ctx, login("deo.cs", "deo-pass"))
	require.NoError(t, err)
	assert.Equal(t, "deo", resp.Role)

	_, err = f.service.LoginAdvisor(ctx, login("gone", "gone-pass"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.service.LoginAdvisor(ctx, login("", ""))
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginRecordsRefreshTokenAndLastLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	user := f.store.AddUser("adv", "adv-pass", models.RoleAdvisor, true)

	resp, err := f.service.LoginAdvisor(ctx, login("adv", "adv-pass"))
	require.NoError(t, err)

	claims, err := testutil.NewJWTService(f.clock).ValidateToken(resp.Refresh, auth.TokenTypeRefresh)
	require.NoError(t, err)
	stored := f.store.Token(claims.ID)
	require.NotNil(t, stored)
	assert.Equal(t, user.ID, stored.UserID)
	assert.False(t, stored.IsBlacklisted())

	reloaded, err := f.store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLogin)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.store.AddUser("adv", "adv-pass", models.RoleAdvisor, true)
	resp, err := f.service.LoginAdvisor(ctx, login("adv", "adv-pass"))
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		assert.ErrorIs(t, f.service.Logout(ctx, " "), apperrors.ErrRefreshTokenMissing)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		err := f.service.Logout(ctx, resp.Access)
		assert.True(t, services.IsTokenError(err))
	})

	t.Run("first logout blacklists", func(t *testing.T) {
		require.NoError(t, f.service.Logout(ctx, resp.Refresh))
		assert.Len(t, f.blacklist.jtis, 1)
		for _, ttl := range f.blacklist.jtis {
			assert.Equal(t, 24*time.Hour, ttl)
		}
	})

	t.Run("second logout is refused", func(t *testing.T) {
		err := f.service.Logout(ctx, resp.Refresh)
		assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
		assert.True(t, services.IsTokenError(err))
	})
}

func TestLogoutWithoutCacheUsesDatabase(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	clock := testutil.NewClock()
	svc := services.NewAuthService(store, store, nil, testutil.NewJWTService(clock), zerolog.Nop())
	store.AddUser("adv", "adv-pass", models.RoleAdvisor, true)

	resp, err := svc.LoginAdvisor(ctx, login("adv", "adv-pass"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.Refresh))
	assert.ErrorIs(t, svc.Logout(ctx, resp.Refresh), apperrors.ErrTokenRevoked)
}

func TestRefreshAccessToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	user := f.store.AddUser("adv", "adv-pass", models.RoleAdvisor, true)
	resp, err := f.service.LoginAdvisor(ctx, login("adv", "adv-pass"))
	require.NoError(t, err)

	t.Run("issues a new access token", func(t *testing.T) {
		out, err := f.service.RefreshAccessToken(ctx, resp.Refresh)
		require.NoError(t, err)

		claims, err := testutil.NewJWTService(f.clock).ValidateToken(out.Access, auth.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		_, err := f.service.RefreshAccessToken(ctx, resp.Access)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := f.service.RefreshAccessToken(ctx, "")
		assert.ErrorIs(t, err, apperrors.ErrRefreshTokenMissing)
	})

	t.Run("blacklisted token cannot refresh", func(t *testing.T) {
		require.NoError(t, f.service.Logout(ctx, resp.Refresh))
		_, err := f.service.RefreshAccessToken(ctx, resp.Refresh)
		assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	})

	t.Run("expired token cannot refresh", func(t *testing.T) {
		fresh, err := f.service.LoginAdvisor(ctx, login("adv", "adv-pass"))
		require.NoError(t, err)
		f.clock.Advance(25 * time.Hour)
		_, err = f.service.RefreshAccessToken(ctx, fresh.Refresh)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})
}

func TestCleanupExpiredTokens(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.store.AddUser("adv", "adv-pass", models.RoleAdvisor, true)
	_, err := f.service.LoginAdvisor(ctx, login("adv", "adv-pass"))
	require.NoError(t, err)

	removed, err := f.service.CleanupExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	f.clock.Advance(25 * time.Hour)
	removed, err = f.service.CleanupExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestLookupActiveUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	active := f.store.AddUser("adv", "p", models.RoleAdvisor, true)
	inactive := f.store.AddUser("old", "p", models.RoleAdvisor, false)

	u, err := f.service.LookupActiveUser(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, "adv", u.Username)

	_, err = f.service.LookupActiveUser(ctx, inactive.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)

	_, err = f.service.LookupActiveUser(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
