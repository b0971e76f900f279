package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/releaserite/dto"
	"github.com/releaserite/middleware"
	"github.com/releaserite/services"
	"github.com/releaserite/utils"
)

// EnvironmentController handles environment-related API endpoints
type EnvironmentController struct {
	environmentService *services.EnvironmentService
}

// NewEnvironmentController creates a new environment controller
func NewEnvironmentController(environmentService *services.EnvironmentService) *EnvironmentController {
	return &EnvironmentController{environmentService: environmentService}
}

// RegisterRoutes registers environment routes
func (c *EnvironmentController) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequirePermission(services.PermReadEnvironments)
	write := middleware.RequirePermission(services.PermCreateEnvironments)

	environments := router.Group("/environment")
	{
		environments.GET("", read, c.ListEnvironments)
		environments.POST("", write, c.CreateEnvironment)
		environments.GET("/:id", read, c.GetEnvironment)
		environments.PATCH("/:id", write, c.UpdateEnvironment)
		environments.DELETE("/:id", write, c.DeleteEnvironment)
	}
}

// ListEnvironments returns every environment ordered by name
func (c *EnvironmentController) ListEnvironments(ctx *gin.Context) {
	environments, err := c.environmentService.ListEnvironments(ctx.Request.Context())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, environments)
}

// GetEnvironment returns a single environment
func (c *EnvironmentController) GetEnvironment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	environment, err := c.environmentService.GetEnvironment(ctx.Request.Context(), id)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, environment)
}

// CreateEnvironment creates an environment with a unique name
func (c *EnvironmentController) CreateEnvironment(ctx *gin.Context) {
	var req dto.EnvironmentRequest
	if !bindJSON(ctx, &req) {
		return
	}
	environment, err := c.environmentService.CreateEnvironment(ctx.Request.Context(), req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, environment)
}

// UpdateEnvironment applies a partial update
func (c *EnvironmentController) UpdateEnvironment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.EnvironmentUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}
	environment, err := c.environmentService.UpdateEnvironment(ctx.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, environment)
}

// DeleteEnvironment removes an environment that no service references
func (c *EnvironmentController) DeleteEnvironment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.environmentService.DeleteEnvironment(ctx.Request.Context(), id); err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
