package api

import (
	"alcyxob/health-tracker/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dashboardPath = "/dashboard/"

// respondError maps service errors onto HTTP responses. Anything that is not
// a known sentinel is logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": verr.Fields})
	case errors.Is(err, service.ErrParse):
		abortWithError(c, http.StatusBadRequest, service.ErrParse.Error())
	case errors.Is(err, service.ErrUnknownKind):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unknown entry type", "redirect": dashboardPath})
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrExportsDisabled):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		l := loggerFrom(c)
		l.Error().Stack().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// bindJSON decodes the body into dst, answering 400 on malformed JSON.
// Field validation happens in the service layer.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// currentUser returns the authenticated user, aborting with 401 if the
// middleware did not run.
func currentUser(c *gin.Context) (primitive.ObjectID, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
	}
	return userID, ok
}
