package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/db"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/dberrors"
	"github.com/timetable/scheduler/internal/pkg/logger"
)

// Conn is a connection that can also open transactions, such as *pgxpool.Pool.
type Conn interface {
	db.DBTX
	db.TxBeginner
}

var advisorColumns = []string{
	"a.id", "a.user_id", "a.deo_id", "a.faculty", "a.seniority", "a.year",
	"u.id", "u.username", "u.password", "u.email", "u.first_name", "u.last_name",
	"u.role", "u.is_active", "u.last_login", "u.date_joined",
}

func advisorTargets(a *models.Advisor) []any {
	a.User = &models.User{}
	return append([]any{&a.ID, &a.UserID, &a.DEOID, &a.Faculty, &a.Seniority, &a.Year}, userTargets(a.User)...)
}

// AdvisorRepository persists advisors together with their users.
type AdvisorRepository struct {
	conn Conn
	sb   squirrel.StatementBuilderType
}

// NewAdvisorRepository creates a new AdvisorRepository
func NewAdvisorRepository(conn Conn) *AdvisorRepository {
	return &AdvisorRepository{
		conn: conn,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AdvisorRepository) selectQuery() squirrel.SelectBuilder {
	return r.sb.Select(advisorColumns...).
		From("advisors a").
		Join("users u ON u.id = a.user_id")
}

// ListAdvisors returns every advisor ordered by id.
func (r *AdvisorRepository) ListAdvisors(ctx context.Context) ([]*models.Advisor, error) {
	sql, args, err := r.selectQuery().OrderBy("a.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list advisors query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing advisors")
		return nil, fmt.Errorf("error listing advisors: %w", err)
	}
	defer rows.Close()

	advisors := make([]*models.Advisor, 0)
	for rows.Next() {
		a := &models.Advisor{}
		if err := rows.Scan(advisorTargets(a)...); err != nil {
			return nil, fmt.Errorf("error scanning advisor row: %w", err)
		}
		advisors = append(advisors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating advisor rows: %w", err)
	}
	return advisors, nil
}

// GetAdvisorByID returns an advisor with its user or apperrors.ErrAdvisorNotFound.
func (r *AdvisorRepository) GetAdvisorByID(ctx context.Context, id int64) (*models.Advisor, error) {
	sql, args, err := r.selectQuery().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get advisor query: %w", err)
	}

	a := &models.Advisor{}
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(advisorTargets(a)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdvisorNotFound
		}
		return nil, fmt.Errorf("error retrieving advisor: %w", err)
	}
	return a, nil
}

// CreateAdvisor inserts user and advisor in one transaction.
func (r *AdvisorRepository) CreateAdvisor(ctx context.Context, user *models.User, advisor *models.Advisor) error {
	return db.RunInTx(ctx, r.conn, func(ctx context.Context, tx pgx.Tx) error {
		if err := NewUserRepository(tx).CreateUser(ctx, user); err != nil {
			return err
		}
		advisor.UserID = user.ID

		sql, args, err := r.sb.Insert("advisors").
			Columns("user_id", "deo_id", "faculty", "seniority", "year").
			Values(advisor.UserID, advisor.DEOID, advisor.Faculty, advisor.Seniority, advisor.Year).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create advisor query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&advisor.ID); err != nil {
			return fmt.Errorf("error creating advisor: %w", dberrors.Translate(err))
		}
		advisor.User = user
		return nil
	})
}

// UpdateAdvisor writes the advisor and its user in one transaction.
func (r *AdvisorRepository) UpdateAdvisor(ctx context.Context, advisor *models.Advisor) error {
	if advisor.User == nil {
		return fmt.Errorf("advisor %d has no user loaded", advisor.ID)
	}
	return db.RunInTx(ctx, r.conn, func(ctx context.Context, tx pgx.Tx) error {
		if err := NewUserRepository(tx).UpdateUser(ctx, advisor.User); err != nil {
			return err
		}

		sql, args, err := r.sb.Update("advisors").
			SetMap(map[string]interface{}{
				"deo_id":    advisor.DEOID,
				"faculty":   advisor.Faculty,
				"seniority": advisor.Seniority,
				"year":      advisor.Year,
			}).
			Where(squirrel.Eq{"id": advisor.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update advisor query: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error updating advisor: %w", dberrors.Translate(err))
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrAdvisorNotFound
		}
		return nil
	})
}

// DeleteAdvisor deletes the advisor's user; the advisor row goes by cascade.
func (r *AdvisorRepository) DeleteAdvisor(ctx context.Context, advisor *models.Advisor) error {
	if err := NewUserRepository(r.conn).DeleteUser(ctx, advisor.UserID); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrAdvisorNotFound
		}
		return err
	}
	return nil
}
