package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/releaserite/middleware"
	"github.com/releaserite/utils"
)

// Logout revokes the presented token. Without a revocation store the token simply
// runs out at its expiry.
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx.Request.Context(), middleware.CurrentClaims(ctx)); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Logged out successfully",
	})
}
