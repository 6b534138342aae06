package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	appModels "github.com/timetable/scheduler/internal/app/models"
	appRepos "github.com/timetable/scheduler/internal/app/repositories"
	"github.com/timetable/scheduler/internal/db"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/auth"
)

// DEOAccount describes the DEO to create.
type DEOAccount struct {
	Username   string
	Password   string
	Email      string
	Department string
}

// Conn is what seeding needs from the database: plain queries and transactions.
type Conn interface {
	db.DBTX
	db.TxBeginner
}

// EnsureDEO creates a DEO user and profile unless the username already exists.
// It reports whether an account was created.
func EnsureDEO(ctx context.Context, conn Conn, account DEOAccount, lgr zerolog.Logger) (bool, error) {
	account.Username = strings.TrimSpace(account.Username)
	if account.Username == "" || account.Password == "" {
		return false, errors.New("deo username and password are required")
	}

	exists, err := appRepos.NewUserRepository(conn).UsernameExists(ctx, account.Username, 0)
	if err != nil {
		return false, err
	}
	if exists {
		lgr.Info().Str("username", account.Username).Msg("DEO user already exists, skipping creation")
		return false, nil
	}

	hashed, err := auth.HashPassword(account.Password)
	if err != nil {
		return false, fmt.Errorf("error hashing deo password: %w", err)
	}

	user := &appModels.User{
		Username: account.Username,
		Password: hashed,
		Role:     appModels.RoleDEO,
		IsActive: true,
	}
	if account.Email != "" {
		user.Email = &account.Email
	}

	deo := &appModels.DEO{}
	if account.Department != "" {
		deo.DepartmentName = &account.Department
	}

	err = db.RunInTx(ctx, conn, func(ctx context.Context, tx pgx.Tx) error {
		users := appRepos.NewUserRepository(tx)
		if err := users.CreateUser(ctx, user); err != nil {
			return err
		}
		deo.UserID = user.ID
		return users.CreateDEO(ctx, deo)
	})
	if errors.Is(err, apperrors.ErrUsernameTaken) {
		lgr.Info().Str("username", account.Username).Msg("DEO user created concurrently, skipping")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	lgr.Info().Int64("userID", user.ID).Int64("deoID", deo.ID).Str("username", user.Username).
		Msg("DEO user created successfully")
	return true, nil
}
