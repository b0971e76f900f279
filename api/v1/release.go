package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/releaserite/dto"
	"github.com/releaserite/middleware"
	"github.com/releaserite/services"
	"github.com/releaserite/utils"
)

// ReleaseController handles releases, their deployments and reports
type ReleaseController struct {
	releaseService *services.ReleaseService
	reportService  *services.ReportService
}

// NewReleaseController creates a new release controller
func NewReleaseController(releaseService *services.ReleaseService, reportService *services.ReportService) *ReleaseController {
	return &ReleaseController{releaseService: releaseService, reportService: reportService}
}

// RegisterRoutes registers release routes
func (c *ReleaseController) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequirePermission(services.PermReadReleases)
	write := middleware.RequirePermission(services.PermCreateReleases)

	releases := router.Group("/releases")
	{
		releases.GET("", read, c.ListReleases)
		releases.POST("", write, c.CreateRelease)
		releases.GET("/:id", read, c.GetRelease)
		releases.PATCH("/:id", write, c.UpdateRelease)
		releases.DELETE("/:id", write, c.DeleteRelease)

		releases.POST("/:id/deploy", write, c.DeployRelease)
		releases.DELETE("/:id/deploy/:env_id", write, c.UndeployFromEnvironment)
		releases.DELETE("/:id/deploy/:env_id/:service_id", write, c.UndeployServiceFromEnvironment)

		releases.GET("/:id/matrix", read, c.GetMatrix)
		releases.GET("/:id/report", read, c.DownloadReport)
	}
}

// ListReleases returns a page of releases with their details
func (c *ReleaseController) ListReleases(ctx *gin.Context) {
	params, ok := bindListParams(ctx)
	if !ok {
		return
	}
	releases, err := c.releaseService.ListReleases(ctx.Request.Context(), params)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewReleaseListResponse(releases))
}

// GetRelease returns a release with assignments, links and deployments
func (c *ReleaseController) GetRelease(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	release, err := c.releaseService.GetRelease(ctx.Request.Context(), id)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewReleaseResponse(release))
}

// CreateRelease creates a release owned by the caller
func (c *ReleaseController) CreateRelease(ctx *gin.Context) {
	var req dto.ReleaseRequest
	if !bindJSON(ctx, &req) {
		return
	}
	release, err := c.releaseService.CreateRelease(ctx.Request.Context(), middleware.CurrentUser(ctx), req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewReleaseResponse(release))
}

// UpdateRelease applies a partial update. A services field replaces all links.
func (c *ReleaseController) UpdateRelease(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReleaseUpdateRequest
	if !bindJSON(ctx, &req) {
		return
	}
	release, err := c.releaseService.UpdateRelease(ctx.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewReleaseResponse(release))
}

// DeleteRelease removes a release along with its links and deployments
func (c *ReleaseController) DeleteRelease(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.releaseService.DeleteRelease(ctx.Request.Context(), id); err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DeployRelease appends a deployment record to the release history
func (c *ReleaseController) DeployRelease(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.DeploymentRequest
	if !bindJSON(ctx, &req) {
		return
	}
	deployment, err := c.releaseService.RecordDeployment(ctx.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, deployment)
}

// UndeployFromEnvironment removes the earliest deployment of the release to an environment
func (c *ReleaseController) UndeployFromEnvironment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	envID, ok := pathID(ctx, "env_id")
	if !ok {
		return
	}
	if err := c.releaseService.UndeployFromEnvironment(ctx.Request.Context(), id, envID); err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// UndeployServiceFromEnvironment removes every deployment of one service of the release
// to an environment
func (c *ReleaseController) UndeployServiceFromEnvironment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	envID, ok := pathID(ctx, "env_id")
	if !ok {
		return
	}
	serviceID, ok := pathID(ctx, "service_id")
	if !ok {
		return
	}
	if err := c.releaseService.UndeployServiceFromEnvironment(ctx.Request.Context(), id, envID, serviceID); err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetMatrix returns the per-service, per-environment deployment status of a release
func (c *ReleaseController) GetMatrix(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	matrix, err := c.releaseService.StatusMatrix(ctx.Request.Context(), id)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, matrix)
}

// DownloadReport serves the release report as a PDF attachment
func (c *ReleaseController) DownloadReport(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	report, err := c.reportService.ReleaseReport(ctx.Request.Context(), id)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	ctx.Data(http.StatusOK, "application/pdf", report.Content)
}
