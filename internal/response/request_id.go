package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// headerRequestID is the wire header the request ID travels in, both
// inbound (caller-supplied correlation) and outbound (echoed back).
const headerRequestID = "X-Request-ID"

// RequestIDMiddleware tags every request with an ID. A caller-supplied
// X-Request-ID is honored so upstream correlation survives the hop;
// otherwise a fresh UUID is minted.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header(headerRequestID, reqID)
		c.Next()
	}
}
