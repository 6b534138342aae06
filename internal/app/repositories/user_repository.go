package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/db"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/dberrors"
)

const userColumns = `id, username, password, email, first_name, last_name, role, is_active, last_login, date_joined`

func userTargets(u *models.User) []any {
	return []any{&u.ID, &u.Username, &u.Password, &u.Email, &u.FirstName, &u.LastName,
		&u.Role, &u.IsActive, &u.LastLogin, &u.DateJoined}
}

// UserRepository handles users and their DEO profiles.
type UserRepository struct {
	db db.DBTX
}

// NewUserRepository creates a new UserRepository. conn may be a pool or a transaction.
func NewUserRepository(conn db.DBTX) *UserRepository {
	return &UserRepository{db: conn}
}

// CreateUser inserts user and fills in its id and date_joined.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, password, email, first_name, last_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, date_joined`,
		user.Username, user.Password, user.Email, user.FirstName, user.LastName, user.Role, user.IsActive,
	).Scan(&user.ID, &user.DateJoined)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("error creating user: %w", dberrors.Translate(err))
	}
	return nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username).
		Scan(userTargets(user)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(userTargets(user)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// UpdateUser writes the mutable user columns.
func (r *UserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = $1, password = $2, email = $3, first_name = $4, last_name = $5, is_active = $6
		WHERE id = $7`,
		user.Username, user.Password, user.Email, user.FirstName, user.LastName, user.IsActive, user.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("error updating user: %w", dberrors.Translate(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, userID)
	if err != nil {
		return fmt.Errorf("failed to update last login time: %w", err)
	}
	return nil
}

// UsernameExists reports whether another user already holds username.
// excludeUserID is ignored when zero.
func (r *UserRepository) UsernameExists(ctx context.Context, username string, excludeUserID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id <> $2)`,
		username, excludeUserID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return exists, nil
}

// DeleteUser removes a user. Profiles and refresh tokens go by cascade.
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// CreateDEO inserts a DEO profile for an existing user.
func (r *UserRepository) CreateDEO(ctx context.Context, deo *models.DEO) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO deos (user_id, department_name)
		VALUES ($1, $2)
		RETURNING id`,
		deo.UserID, deo.DepartmentName).Scan(&deo.ID)
	if err != nil {
		return fmt.Errorf("error creating deo profile: %w", dberrors.Translate(err))
	}
	return nil
}

// GetDEOByUserID returns the DEO profile of a user or apperrors.ErrDEOProfileAbsent.
func (r *UserRepository) GetDEOByUserID(ctx context.Context, userID int64) (*models.DEO, error) {
	deo := &models.DEO{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, department_name FROM deos WHERE user_id = $1`,
		userID).Scan(&deo.ID, &deo.UserID, &deo.DepartmentName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDEOProfileAbsent
		}
		return nil, fmt.Errorf("error retrieving deo profile: %w", err)
	}
	return deo, nil
}
