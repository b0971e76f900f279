package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/releaserite/dto"
	"github.com/releaserite/middleware"
	"github.com/releaserite/services"
	"github.com/releaserite/utils"
)

// RoleController handles role management
type RoleController struct {
	roleService *services.RoleService
}

// NewRoleController creates a new role controller
func NewRoleController(roleService *services.RoleService) *RoleController {
	return &RoleController{roleService: roleService}
}

// RegisterRoutes registers role routes
func (c *RoleController) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequirePermission(services.PermReadRoles)
	write := middleware.RequirePermission(services.PermCreateRoles)

	roles := router.Group("/roles")
	{
		roles.GET("", read, c.ListRoles)
		roles.POST("", write, c.CreateRole)
		roles.GET("/:id", read, c.GetRole)
		roles.PATCH("/:id", write, c.UpdateRole)
		roles.DELETE("/:id", write, c.DeleteRole)
	}
}

// ListRoles returns every role ordered by name
func (c *RoleController) ListRoles(ctx *gin.Context) {
	roles, err := c.roleService.ListRoles(ctx.Request.Context())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, roles)
}

// GetRole returns a single role
func (c *RoleController) GetRole(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	role, err := c.roleService.GetRole(ctx.Request.Context(), id)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, role)
}

// CreateRole creates a role with a unique name
func (c *RoleController) CreateRole(ctx *gin.Context) {
	var req dto.RoleRequest
	if !bindJSON(ctx, &req) {
		return
	}
	role, err := c.roleService.CreateRole(ctx.Request.Context(), req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, role)
}

// UpdateRole applies a partial update to a role
func (c *RoleController) UpdateRole(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.RoleUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}
	role, err := c.roleService.UpdateRole(ctx.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, role)
}

// DeleteRole removes a role no user is assigned to
func (c *RoleController) DeleteRole(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.roleService.DeleteRole(ctx.Request.Context(), id); err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
