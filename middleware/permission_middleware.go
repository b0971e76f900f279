package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/releaserite/services"
	"github.com/releaserite/utils"
)

// RequirePermission rejects the request with 403 unless the authenticated user's role
// grants permission. It must run after AuthMiddleware.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := services.Authorize(CurrentUser(c), permission); err != nil {
			utils.RespondError(c, err)
			return
		}
		c.Next()
	}
}
