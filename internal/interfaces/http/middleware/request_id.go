package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"leadflow.backend/pkg/logger"
)

const (
	RequestIDKey    = "request_id"
	ActorIDKey      = "actor_id"
	RequestIDHeader = "X-Request-ID"
	ActorIDHeader   = "X-Actor-ID"
)

// RequestIDMiddleware assigns a request id and picks up the acting user from
// X-Actor-ID. Both are stored in the gin context and the request context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		if actor := strings.TrimSpace(c.GetHeader(ActorIDHeader)); actor != "" {
			c.Set(ActorIDKey, actor)
			ctx = context.WithValue(ctx, logger.ActorIDKey, actor)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
