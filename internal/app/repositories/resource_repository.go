package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/timetable/scheduler/internal/db"
	"github.com/timetable/scheduler/internal/pkg/dberrors"
	"github.com/timetable/scheduler/internal/pkg/helpers"
	"github.com/timetable/scheduler/internal/pkg/logger"
)

// Table describes how an entity type maps onto its table. Columns excludes
// the id; Values and Targets must follow the order of Columns.
type Table[T any] struct {
	Name    string
	Columns []string
	// Values returns the column values of item for INSERT and UPDATE.
	Values func(item *T) []any
	// Targets returns scan destinations for id followed by Columns.
	Targets func(item *T) []any
	// ID returns a pointer to the item's primary key.
	ID func(item *T) *int64
}

func (t Table[T]) selectColumns() []string {
	return append([]string{"id"}, t.Columns...)
}

// ResourceRepository implements CRUD for one table using squirrel.
type ResourceRepository[T any] struct {
	db    db.DBTX
	sb    squirrel.StatementBuilderType
	table Table[T]
}

// NewResourceRepository creates a repository for table.
func NewResourceRepository[T any](conn db.DBTX, table Table[T]) *ResourceRepository[T] {
	return &ResourceRepository[T]{
		db:    conn,
		sb:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		table: table,
	}
}

// Name returns the table name.
func (r *ResourceRepository[T]) Name() string {
	return r.table.Name
}

func (r *ResourceRepository[T]) listQuery(page helpers.Page) squirrel.SelectBuilder {
	q := r.sb.Select(r.table.selectColumns()...).From(r.table.Name).OrderBy("id ASC")
	if !page.IsZero() {
		offset, limit := helpers.CalculateOffsetLimit(page.Number, page.Size)
		q = q.Limit(uint64(limit)).Offset(offset)
	}
	return q
}

// List returns rows ordered by id and the total row count.
func (r *ResourceRepository[T]) List(ctx context.Context, page helpers.Page) ([]*T, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From(r.table.Name).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build %s count query: %w", r.table.Name, err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Str("table", r.table.Name).Msg("Error counting rows")
		return nil, 0, fmt.Errorf("error counting %s: %w", r.table.Name, err)
	}

	sql, args, err := r.listQuery(page).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build %s list query: %w", r.table.Name, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", r.table.Name).Msg("Error listing rows")
		return nil, 0, fmt.Errorf("error listing %s: %w", r.table.Name, err)
	}
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item := new(T)
		if err := rows.Scan(r.table.Targets(item)...); err != nil {
			return nil, 0, fmt.Errorf("error scanning %s row: %w", r.table.Name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating %s rows: %w", r.table.Name, err)
	}

	return items, total, nil
}

// GetByID returns one row or apperrors.ErrResourceNotFound.
func (r *ResourceRepository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	sql, args, err := r.sb.Select(r.table.selectColumns()...).
		From(r.table.Name).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s get query: %w", r.table.Name, err)
	}

	item := new(T)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(r.table.Targets(item)...); err != nil {
		return nil, dberrors.Translate(err)
	}
	return item, nil
}

func (r *ResourceRepository[T]) insertQuery(item *T) (string, []any, error) {
	return r.sb.Insert(r.table.Name).
		Columns(r.table.Columns...).
		Values(r.table.Values(item)...).
		Suffix("RETURNING id").
		ToSql()
}

// Create inserts item and sets its id.
func (r *ResourceRepository[T]) Create(ctx context.Context, item *T) error {
	sql, args, err := r.insertQuery(item)
	if err != nil {
		return fmt.Errorf("failed to build %s insert query: %w", r.table.Name, err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(r.table.ID(item)); err != nil {
		logger.Debug().Err(err).Str("table", r.table.Name).Msg("Insert failed")
		return dberrors.Translate(err)
	}
	return nil
}

func (r *ResourceRepository[T]) updateQuery(item *T) (string, []any, error) {
	values := r.table.Values(item)
	clauses := make(map[string]interface{}, len(r.table.Columns))
	for i, col := range r.table.Columns {
		clauses[col] = values[i]
	}
	return r.sb.Update(r.table.Name).
		SetMap(clauses).
		Where(squirrel.Eq{"id": *r.table.ID(item)}).
		ToSql()
}

// Update writes every column of item to the row with the given id.
func (r *ResourceRepository[T]) Update(ctx context.Context, id int64, item *T) error {
	*r.table.ID(item) = id
	sql, args, err := r.updateQuery(item)
	if err != nil {
		return fmt.Errorf("failed to build %s update query: %w", r.table.Name, err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return dberrors.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return dberrors.Translate(pgx.ErrNoRows)
	}
	return nil
}

// Delete removes a row; dependent rows go by cascade.
func (r *ResourceRepository[T]) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete(r.table.Name).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s delete query: %w", r.table.Name, err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return dberrors.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return dberrors.Translate(pgx.ErrNoRows)
	}
	return nil
}
