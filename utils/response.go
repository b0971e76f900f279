package utils

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/releaserite/services"
)

// StatusFor maps a service error onto its HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError aborts the request with the status/message error envelope. Unexpected
// faults are attached to the gin context for the logging middleware and are not
// echoed back to the caller.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	message := services.Message(err)

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "Internal server error"
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}

	c.AbortWithStatusJSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}

// RespondBadRequest reports malformed input, e.g. a body that failed binding
func RespondBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
