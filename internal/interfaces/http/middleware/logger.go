package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"leadflow.backend/pkg/logger"
)

const unmatchedRoute = "unmatched"

// LoggerMiddleware logs each request with its route template, the lead it
// touched and whether the response was an idempotent replay.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		fields := []zap.Field{
			zap.String("route", route),
			zap.Int("response_bytes", c.Writer.Size()),
		}
		if leadID := c.Param("id"); leadID != "" {
			fields = append(fields, zap.String("lead_id", leadID))
		}
		if c.Writer.Header().Get(IdempotencyHitHeader) == "true" {
			fields = append(fields, zap.Bool("idempotent_replay", true))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		// request and actor ids come from the context set by RequestIDMiddleware
		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP(), fields...)
	}
}
