package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/releaserite/dto"
	"github.com/releaserite/middleware"
	"github.com/releaserite/services"
	"github.com/releaserite/utils"
)

// AuthController handles login and the caller's own session
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// RegisterRoutes registers auth routes. loginGuard runs in front of the login handler.
func (c *AuthController) RegisterRoutes(router *gin.RouterGroup, loginGuard gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", loginGuard, c.Login)
		auth.GET("/me", middleware.AuthMiddleware(c.authService), c.GetCurrentUser)
		auth.POST("/logout", middleware.AuthMiddleware(c.authService), c.Logout)
	}
}

// Login exchanges form-encoded credentials for a bearer token
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		utils.RespondBadRequest(ctx, err)
		return
	}

	token, expiresAt, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewTokenResponse(token, expiresAt))
}

// GetCurrentUser returns the authenticated user's profile
func (c *AuthController) GetCurrentUser(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, middleware.CurrentUser(ctx))
}
