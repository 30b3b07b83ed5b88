package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rentflow/rentflow/internal/types"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware propagates the caller's request id, minting one when
// the header is absent, and echoes it back on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
		}

		ctx := types.SetRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()
	}
}
