package services

import (
	"context"
	"time"

	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/pkg/helpers"
)

// UserStore is the user persistence used by authentication.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}

// TokenStore tracks outstanding and blacklisted refresh tokens.
type TokenStore interface {
	CreateOutstanding(ctx context.Context, token *models.RefreshToken) error
	GetByJTI(ctx context.Context, jti string) (*models.RefreshToken, error)
	Blacklist(ctx context.Context, token *models.RefreshToken, at time.Time) error
	CleanupExpired(ctx context.Context, now time.Time) (int64, error)
}

// AdvisorStore persists advisors together with their users.
type AdvisorStore interface {
	ListAdvisors(ctx context.Context) ([]*models.Advisor, error)
	GetAdvisorByID(ctx context.Context, id int64) (*models.Advisor, error)
	CreateAdvisor(ctx context.Context, user *models.User, advisor *models.Advisor) error
	UpdateAdvisor(ctx context.Context, advisor *models.Advisor) error
	DeleteAdvisor(ctx context.Context, advisor *models.Advisor) error
}

// UsernameChecker reports username collisions.
type UsernameChecker interface {
	UsernameExists(ctx context.Context, username string, excludeUserID int64) (bool, error)
}

// ResourceStore is CRUD persistence for one entity type.
type ResourceStore[T any] interface {
	List(ctx context.Context, page helpers.Page) ([]*T, int64, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, id int64, item *T) error
	Delete(ctx context.Context, id int64) error
}
