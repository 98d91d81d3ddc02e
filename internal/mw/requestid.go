package mw

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// requestIDMaxLen caps externally supplied IDs so a hostile header
// cannot inject arbitrary text into the logs.
const requestIDMaxLen = 64

// RequestID propagates the X-Request-ID header, generating a fresh UUID
// when the client did not send one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}
