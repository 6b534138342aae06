package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/timetable/scheduler/internal/app/repositories"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/helpers"
)

func sortByID[T any](items []*T, id func(*T) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}

// Resources is an in-memory services.ResourceStore keyed by the table's id.
type Resources[T any] struct {
	mu     sync.Mutex
	table  repositories.Table[T]
	rows   map[int64]T
	nextID int64
}

// NewResources returns an empty store for table.
func NewResources[T any](table repositories.Table[T]) *Resources[T] {
	return &Resources[T]{table: table, rows: make(map[int64]T)}
}

// List implements services.ResourceStore.
func (r *Resources[T]) List(_ context.Context, page helpers.Page) ([]*T, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]*T, 0, len(r.rows))
	for _, row := range r.rows {
		c := row
		items = append(items, &c)
	}
	sortByID(items, func(item *T) int64 { return *r.table.ID(item) })

	total := int64(len(items))
	if !page.IsZero() {
		_, size := helpers.CalculateOffsetLimit(page.Number, page.Size)
		start, end := helpers.CalculateSliceIndices(page.Number, size, len(items))
		items = items[start:end]
	}
	return items, total, nil
}

// GetByID implements services.ResourceStore.
func (r *Resources[T]) GetByID(_ context.Context, id int64) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return &row, nil
}

// Create implements services.ResourceStore.
func (r *Resources[T]) Create(_ context.Context, item *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	*r.table.ID(item) = r.nextID
	r.rows[r.nextID] = *item
	return nil
}

// Update implements services.ResourceStore.
func (r *Resources[T]) Update(_ context.Context, id int64, item *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	*r.table.ID(item) = id
	r.rows[id] = *item
	return nil
}

// Delete implements services.ResourceStore.
func (r *Resources[T]) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(r.rows, id)
	return nil
}
