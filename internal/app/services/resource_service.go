package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/timetable/scheduler/internal/pkg/helpers"
	"github.com/timetable/scheduler/internal/pkg/validation"
)

// ResourceService implements list/create/retrieve/update/delete for one entity type.
type ResourceService[T any] struct {
	name     string
	store    ResourceStore[T]
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewResourceService creates a service over store. name is used in logs.
func NewResourceService[T any](name string, store ResourceStore[T], logger zerolog.Logger) *ResourceService[T] {
	return &ResourceService[T]{
		name:     name,
		store:    store,
		validate: validation.New(),
		logger:   logger.With().Str("resource", name).Logger(),
	}
}

// Name returns the resource name.
func (s *ResourceService[T]) Name() string {
	return s.name
}

// List returns the requested page ordered by id, plus the total count.
func (s *ResourceService[T]) List(ctx context.Context, page helpers.Page) ([]*T, int64, error) {
	return s.store.List(ctx, page)
}

// Get returns one item.
func (s *ResourceService[T]) Get(ctx context.Context, id int64) (*T, error) {
	return s.store.GetByID(ctx, id)
}

// Create validates and stores item.
func (s *ResourceService[T]) Create(ctx context.Context, item *T) error {
	if err := s.validate.Struct(item); err != nil {
		return err
	}
	if err := s.store.Create(ctx, item); err != nil {
		return err
	}
	s.logger.Debug().Msg("Created")
	return nil
}

// Update replaces every field of the item with the given id.
func (s *ResourceService[T]) Update(ctx context.Context, id int64, item *T) error {
	if err := s.validate.Struct(item); err != nil {
		return err
	}
	return s.store.Update(ctx, id, item)
}

// Patch loads the item, lets apply overwrite the supplied fields, then
// validates and stores the merged result.
func (s *ResourceService[T]) Patch(ctx context.Context, id int64, apply func(*T) error) (*T, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(current); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(current); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, id, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes the item with the given id.
func (s *ResourceService[T]) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug().Int64("id", id).Msg("Deleted")
	return nil
}
