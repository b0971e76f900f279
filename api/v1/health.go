package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/releaserite/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthController reports liveness together with database reachability
type HealthController struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewHealthController creates a new health controller
func NewHealthController(db *gorm.DB, logger *zap.Logger) *HealthController {
	return &HealthController{db: db, logger: logger}
}

// HealthCheck handles the health check endpoint
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	if err := database.Ping(c.db); err != nil {
		c.logger.Error("health check failed", zap.Error(err))
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Database unavailable",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
