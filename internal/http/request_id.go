package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request correlation ID. Incoming values from
// trusted proxies are kept; otherwise a fresh one is generated.
const RequestIDHeader = "X-Request-ID"

const contextKeyRequestID = "request_id"

// RequestIDMiddleware assigns every request a correlation ID and echoes it
// in the response headers.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(contextKeyRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request's correlation ID, or "" outside the
// middleware.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(contextKeyRequestID); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
