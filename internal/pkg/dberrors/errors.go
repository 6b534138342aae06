package dberrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
)

// PostgreSQL SQLSTATE codes we translate.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeNotNullViolation    = "23502"
	CodeCheckViolation      = "23514"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint. An empty constraint name matches any unique violation.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != CodeUniqueViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeForeignKeyViolation
}

// Translate maps driver errors onto apperrors sentinels, keeping the original
// error in the chain. Errors it does not recognise are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %v", apperrors.ErrResourceNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case CodeUniqueViolation:
		return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, uniqueMessage(pgErr)).
			WithDetails(map[string]interface{}{"constraint": pgErr.ConstraintName})
	case CodeForeignKeyViolation:
		return apperrors.NewCustomError(apperrors.ErrInvalidReference, "Invalid pk - object does not exist.").
			WithDetails(map[string]interface{}{"constraint": pgErr.ConstraintName})
	case CodeNotNullViolation, CodeCheckViolation:
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, pgErr.Message).
			WithDetails(map[string]interface{}{"column": pgErr.ColumnName, "constraint": pgErr.ConstraintName})
	}
	return err
}

func uniqueMessage(pgErr *pgconn.PgError) string {
	if pgErr.TableName != "" {
		return fmt.Sprintf("%s with this value already exists.", pgErr.TableName)
	}
	return "An object with this value already exists."
}
