package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/rentflow/rentflow/internal/errors"
)

// ErrorHandler converts errors attached via c.Error into a JSON error
// response with the HTTP status mapped from the error mark.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
	}
}
