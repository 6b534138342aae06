package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrResourceNotFound},
		{"unique", &pgconn.PgError{Code: CodeUniqueViolation, TableName: "rooms"}, apperrors.ErrResourceAlreadyExists},
		{"foreign key", &pgconn.PgError{Code: CodeForeignKeyViolation}, apperrors.ErrInvalidReference},
		{"not null", &pgconn.PgError{Code: CodeNotNullViolation, ColumnName: "name"}, apperrors.ErrValidationFailed},
		{"check", &pgconn.PgError{Code: CodeCheckViolation}, apperrors.ErrValidationFailed},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: CodeForeignKeyViolation}), apperrors.ErrInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Translate(tt.err), tt.target)
		})
	}
}

func TestTranslatePassesThroughUnknownErrors(t *testing.T) {
	assert.NoError(t, Translate(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, Translate(plain))

	deadlock := &pgconn.PgError{Code: "40P01"}
	assert.Equal(t, error(deadlock), Translate(deadlock))
}

func TestUniqueMessageNamesTable(t *testing.T) {
	err := Translate(&pgconn.PgError{Code: CodeUniqueViolation, TableName: "courses", ConstraintName: "courses_code_key"})
	assert.EqualError(t, err, "courses with this value already exists.")
	assert.True(t, IsDuplicateConstraintError(&pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "users_username_key"}, "users_username_key"))
	assert.False(t, IsDuplicateConstraintError(&pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "x"}, "users_username_key"))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: CodeForeignKeyViolation}))
}
