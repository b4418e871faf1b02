package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uniadmin/ums-api/internal/middleware"
	"github.com/uniadmin/ums-api/internal/models"
	appErrors "github.com/uniadmin/ums-api/pkg/errors"
)

// currentClaims extracts the authenticated claims set by the JWT middleware.
func currentClaims(c *gin.Context) (*models.JWTClaims, error) {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing authentication context")
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authentication context")
	}
	return claims, nil
}

// idParam parses the numeric id path parameter.
func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}

// queryInt64 parses an optional int64 query parameter.
func queryInt64(c *gin.Context, name string) int64 {
	value, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return value
}
