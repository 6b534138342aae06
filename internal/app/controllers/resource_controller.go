package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/timetable/scheduler/internal/app/services"
	"github.com/timetable/scheduler/internal/middleware"
	"github.com/timetable/scheduler/internal/pkg/helpers"
)

// TotalCountHeader carries the unpaginated row count on list responses.
const TotalCountHeader = "X-Total-Count"

// ResourceController exposes list/create and retrieve/update/delete handlers for one entity.
type ResourceController[T any] struct {
	service *services.ResourceService[T]
	logger  zerolog.Logger
}

// NewResourceController creates a new ResourceController
func NewResourceController[T any](service *services.ResourceService[T], logger zerolog.Logger) *ResourceController[T] {
	return &ResourceController[T]{
		service: service,
		logger:  logger.With().Str("resource", service.Name()).Logger(),
	}
}

// Register mounts the handlers on group: "" for the collection and "/:id" for items.
func (c *ResourceController[T]) Register(group *gin.RouterGroup) {
	group.GET("", c.List)
	group.POST("", c.Create)
	group.GET("/:id", c.Get)
	group.PUT("/:id", c.Update)
	group.PATCH("/:id", c.Patch)
	group.DELETE("/:id", c.Delete)
}

// List returns all items ordered by id. page and size query parameters paginate.
func (c *ResourceController[T]) List(ctx *gin.Context) {
	items, total, err := c.service.List(ctx.Request.Context(), helpers.ParsePaginationParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Header(TotalCountHeader, strconv.FormatInt(total, 10))
	ctx.JSON(http.StatusOK, items)
}

// Create stores a new item and returns it with 201.
func (c *ResourceController[T]) Create(ctx *gin.Context) {
	item := new(T)
	if !bindJSON(ctx, item) {
		return
	}
	if err := c.service.Create(ctx.Request.Context(), item); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, item)
}

// Get returns one item.
func (c *ResourceController[T]) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	item, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// Update replaces an item. Every required field must be present.
func (c *ResourceController[T]) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	item := new(T)
	if !bindJSON(ctx, item) {
		return
	}
	if err := c.service.Update(ctx.Request.Context(), id, item); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// Patch updates only the fields present in the body.
func (c *ResourceController[T]) Patch(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	apply, ok := mergeBody[T](ctx)
	if !ok {
		return
	}
	item, err := c.service.Patch(ctx.Request.Context(), id, apply)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// Delete removes an item and returns 204.
func (c *ResourceController[T]) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
