package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/releaserite/dto"
	"github.com/releaserite/middleware"
	"github.com/releaserite/services"
	"github.com/releaserite/utils"
)

// ServiceController handles service-related API endpoints
type ServiceController struct {
	serviceService *services.ServiceService
}

// NewServiceController creates a new service controller
func NewServiceController(serviceService *services.ServiceService) *ServiceController {
	return &ServiceController{serviceService: serviceService}
}

// RegisterRoutes registers service routes
func (c *ServiceController) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequirePermission(services.PermReadServices)
	write := middleware.RequirePermission(services.PermCreateServices)

	servicesGroup := router.Group("/service")
	{
		servicesGroup.GET("", read, c.ListServices)
		servicesGroup.POST("", write, c.CreateService)
		servicesGroup.GET("/:id", read, c.GetService)
		servicesGroup.PATCH("/:id", write, c.UpdateService)
		servicesGroup.DELETE("/:id", write, c.DeleteService)
	}
}

// ListServices returns every service with its environment
func (c *ServiceController) ListServices(ctx *gin.Context) {
	list, err := c.serviceService.ListServices(ctx.Request.Context())
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// GetService returns a single service
func (c *ServiceController) GetService(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	service, err := c.serviceService.GetService(ctx.Request.Context(), id)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, service)
}

// CreateService registers a new service
func (c *ServiceController) CreateService(ctx *gin.Context) {
	var req dto.ServiceRequest
	if !bindJSON(ctx, &req) {
		return
	}
	service, err := c.serviceService.CreateService(ctx.Request.Context(), req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, service)
}

// UpdateService applies a partial update
func (c *ServiceController) UpdateService(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ServiceUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}
	service, err := c.serviceService.UpdateService(ctx.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, service)
}

// DeleteService removes a service that no release includes
func (c *ServiceController) DeleteService(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.serviceService.DeleteService(ctx.Request.Context(), id); err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
