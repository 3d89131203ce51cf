package v1

import (
	"jobconnect-backend/pkg/apperror"
	"jobconnect-backend/pkg/validation"
	"strconv"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body. Field rules are checked by the usecases.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return false
	}
	return true
}

// queryInt reads an optional positive integer query parameter.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		c.Error(validation.Field(name, name+" must be a positive integer"))
		return 0, false
	}
	return n, true
}
