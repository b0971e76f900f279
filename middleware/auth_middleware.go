package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/releaserite/models"
	"github.com/releaserite/services"
	"github.com/releaserite/utils"
)

const (
	userKey   = "user"
	claimsKey = "claims"
	// UserIDKey holds the authenticated user's ID in the gin context
	UserIDKey = "userId"
)

// AuthMiddleware resolves the bearer token to a user and stores it in the context.
// Requests without a valid token are rejected with 401.
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			utils.RespondError(c, services.NewError(services.ErrUnauthenticated, "Not authenticated"))
			return
		}

		user, claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		c.Set(userKey, user)
		c.Set(claimsKey, claims)
		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentUser returns the user stored by AuthMiddleware
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(userKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// CurrentClaims returns the token claims stored by AuthMiddleware
func CurrentClaims(c *gin.Context) *services.TokenClaims {
	if v, exists := c.Get(claimsKey); exists {
		if claims, ok := v.(*services.TokenClaims); ok {
			return claims
		}
	}
	return nil
}
