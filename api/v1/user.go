package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/releaserite/dto"
	"github.com/releaserite/middleware"
	"github.com/releaserite/services"
	"github.com/releaserite/utils"
)

// UserController handles user account management
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// RegisterRoutes registers user routes
func (c *UserController) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequirePermission(services.PermReadUsers)
	write := middleware.RequirePermission(services.PermCreateUsers)

	users := router.Group("/users")
	{
		users.GET("", read, c.ListUsers)
		users.POST("", write, c.CreateUser)
		users.GET("/:id", read, c.GetUser)
		users.PATCH("/:id", write, c.UpdateUser)
		users.DELETE("/:id", write, c.DeleteUser)
	}
}

// ListUsers returns a page of users with their roles
func (c *UserController) ListUsers(ctx *gin.Context) {
	params, ok := bindListParams(ctx)
	if !ok {
		return
	}
	users, err := c.userService.ListUsers(ctx.Request.Context(), params)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, users)
}

// GetUser returns a single user with their role
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	user, err := c.userService.GetUser(ctx.Request.Context(), id)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// CreateUser registers an account under a unique email
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.UserRequest
	if !bindJSON(ctx, &req) {
		return
	}
	user, err := c.userService.CreateUser(ctx.Request.Context(), req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, user)
}

// UpdateUser applies a partial update to an account
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UserUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}
	user, err := c.userService.UpdateUser(ctx.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// DeleteUser removes an account. Callers cannot delete themselves.
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.userService.DeleteUser(ctx.Request.Context(), middleware.CurrentUser(ctx), id); err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
