package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/db"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/dberrors"
	"github.com/timetable/scheduler/internal/pkg/logger"
)

// TokenRepository tracks outstanding and blacklisted refresh tokens.
type TokenRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(conn db.DBTX) *TokenRepository {
	return &TokenRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateOutstanding records an issued refresh token.
func (r *TokenRepository) CreateOutstanding(ctx context.Context, token *models.RefreshToken) error {
	sql, args, err := r.sb.Insert("refresh_tokens").
		Columns("jti", "user_id", "expires_at", "created_at").
		Values(token.JTI, token.UserID, token.ExpiresAt, token.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create token SQL")
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&token.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "refresh_tokens_jti_key") {
			logger.Warn().Str("jti", token.JTI).Msg("Attempted to create duplicate token")
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Int64("userID", token.UserID).Msg("Error executing create token query")
		return fmt.Errorf("error creating token: %w", err)
	}
	return nil
}

// GetByJTI returns a tracked token or apperrors.ErrTokenNotFound.
func (r *TokenRepository) GetByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	sql, args, err := r.sb.Select("id", "jti", "user_id", "expires_at", "created_at", "blacklisted_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"jti": jti}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get token query: %w", err)
	}

	t := &models.RefreshToken{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.JTI, &t.UserID, &t.ExpiresAt, &t.CreatedAt, &t.BlacklistedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error retrieving token: %w", err)
	}
	return t, nil
}

func (r *TokenRepository) blacklistQuery(token *models.RefreshToken, at time.Time) (string, []any, error) {
	return r.sb.Insert("refresh_tokens").
		Columns("jti", "user_id", "expires_at", "created_at", "blacklisted_at").
		Values(token.JTI, token.UserID, token.ExpiresAt, at, at).
		Suffix(`ON CONFLICT (jti) DO UPDATE SET blacklisted_at = EXCLUDED.blacklisted_at
			WHERE refresh_tokens.blacklisted_at IS NULL RETURNING id`).
		ToSql()
}

// Blacklist marks a token revoked in one statement. A token that is not yet
// tracked is inserted already revoked. It returns apperrors.ErrTokenRevoked
// when the token was blacklisted before.
func (r *TokenRepository) Blacklist(ctx context.Context, token *models.RefreshToken, at time.Time) error {
	sql, args, err := r.blacklistQuery(token, at)
	if err != nil {
		return fmt.Errorf("failed to build blacklist token query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&token.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrTokenRevoked
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Str("jti", token.JTI).Msg("Error executing blacklist token query")
		return fmt.Errorf("error blacklisting token: %w", err)
	}
	token.BlacklistedAt = &at
	return nil
}

// CleanupExpired removes tokens that expired before now.
func (r *TokenRepository) CleanupExpired(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.sb.Delete("refresh_tokens").
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building cleanup tokens SQL")
		return 0, fmt.Errorf("failed to build cleanup tokens query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup tokens query")
		return 0, fmt.Errorf("error cleaning up tokens: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}
