package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/stayquote/stayquote/internal/types"
)

// RequestIDMiddleware propagates X-Request-ID, generating one when absent
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
	}

	ctx := types.SetRequestID(c.Request.Context(), requestID)
	c.Request = c.Request.WithContext(ctx)
	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// UserIDMiddleware puts the caller's X-User-ID into the request context. Quotes
// only apply per-user promo limits when a user is known.
func UserIDMiddleware(c *gin.Context) {
	if userID := c.GetHeader(types.HeaderUserID); userID != "" {
		c.Request = c.Request.WithContext(types.SetUserID(c.Request.Context(), userID))
	}
	c.Next()
}
