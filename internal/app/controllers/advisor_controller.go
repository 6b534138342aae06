package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/timetable/scheduler/internal/app/models/dto"
	"github.com/timetable/scheduler/internal/app/services"
	"github.com/timetable/scheduler/internal/middleware"
)

// AdvisorController handles advisor management
type AdvisorController struct {
	advisorService *services.AdvisorService
	logger         zerolog.Logger
}

// NewAdvisorController creates a new AdvisorController
func NewAdvisorController(advisorService *services.AdvisorService, logger zerolog.Logger) *AdvisorController {
	return &AdvisorController{
		advisorService: advisorService,
		logger:         logger,
	}
}

// ListAdvisors lists advisors
// @Summary List advisors
// @Description DEO callers receive every advisor; any other caller receives an empty list.
// @Tags advisors
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AdvisorResponse "Advisors"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /advisors [get]
func (c *AdvisorController) ListAdvisors(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	advisors, err := c.advisorService.List(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAdvisorListResponse(advisors))
}

// CreateAdvisor creates an advisor and its user account
// @Summary Create advisor
// @Description Creates a user with the advisor role and its advisor profile under the calling DEO.
// @Tags advisors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdvisorRequest true "Advisor"
// @Success 201 {object} dto.AdvisorResponse "Advisor created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or username taken"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a DEO"
// @Router /advisors [post]
func (c *AdvisorController) CreateAdvisor(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req dto.AdvisorRequest
	if !bindJSON(ctx, &req) {
		return
	}
	advisor, err := c.advisorService.Create(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAdvisorResponse(advisor))
}

// GetAdvisor retrieves an advisor
// @Summary Get advisor
// @Tags advisors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Advisor ID"
// @Success 200 {object} dto.AdvisorResponse "Advisor"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /advisors/{id} [get]
func (c *AdvisorController) GetAdvisor(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	advisor, err := c.advisorService.Get(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAdvisorResponse(advisor))
}

// UpdateAdvisor replaces an advisor
// @Summary Update advisor
// @Tags advisors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Advisor ID"
// @Param request body dto.AdvisorRequest true "Advisor"
// @Success 200 {object} dto.AdvisorResponse "Advisor updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /advisors/{id} [put]
func (c *AdvisorController) UpdateAdvisor(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var req dto.AdvisorRequest
	if !bindJSON(ctx, &req) {
		return
	}
	advisor, err := c.advisorService.Update(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAdvisorResponse(advisor))
}

// PatchAdvisor partially updates an advisor
// @Summary Partially update advisor
// @Tags advisors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Advisor ID"
// @Param request body dto.AdvisorRequest false "Fields to change"
// @Success 200 {object} dto.AdvisorResponse "Advisor updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /advisors/{id} [patch]
func (c *AdvisorController) PatchAdvisor(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	apply, ok := mergeBody[dto.AdvisorRequest](ctx)
	if !ok {
		return
	}
	advisor, err := c.advisorService.Patch(ctx.Request.Context(), p, id, apply)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAdvisorResponse(advisor))
}

// DeleteAdvisor deletes an advisor together with its user account
// @Summary Delete advisor
// @Tags advisors
// @Security BearerAuth
// @Param id path int true "Advisor ID"
// @Success 204 "Deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /advisors/{id} [delete]
func (c *AdvisorController) DeleteAdvisor(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	if err := c.advisorService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
