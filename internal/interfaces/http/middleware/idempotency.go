package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"leadflow.backend/internal/interfaces/http/response"
	"leadflow.backend/pkg/logger"
	"leadflow.backend/pkg/redis"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	IdempotencyHitHeader = "X-Idempotency-Hit"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour
)

// responseStore is the part of redis.ResponseStore the middleware needs
type responseStore interface {
	Acquire(ctx context.Context, key string) (*redis.StoredResponse, bool, error)
	Complete(ctx context.Context, key string, resp redis.StoredResponse) error
	Release(ctx context.Context, key string) error
}

var newResponseStore = func() responseStore {
	return redis.NewResponseStore(LockDuration, RetentionDuration)
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response of a request that carries
// an already completed Idempotency-Key. Keys are scoped per actor.
func IdempotencyMiddleware() gin.HandlerFunc {
	store := newResponseStore()
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		storageKey := fmt.Sprintf("%s:%s:%s", c.Request.URL.Path, c.GetString(ActorIDKey), key)
		ctx := c.Request.Context()

		stored, pending, err := store.Acquire(ctx, storageKey)
		if err != nil {
			// redis down: serve the request without idempotency rather than fail it
			logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if pending {
			response.ErrorWithError(c, http.StatusConflict, "IDEMPOTENCY_CONFLICT",
				"request with this idempotency key is already in progress")
			c.Abort()
			return
		}
		if stored != nil {
			c.Header(IdempotencyHitHeader, "true")
			c.Data(stored.Status, stored.ContentType, []byte(stored.Body))
			c.Abort()
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			err = store.Complete(ctx, storageKey, redis.StoredResponse{
				Status:      status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        w.body.String(),
			})
		} else {
			// failed requests may be retried with the same key
			err = store.Release(ctx, storageKey)
		}
		if err != nil {
			logger.Warn(ctx, "Failed to record idempotent response", zap.Error(err))
		}
	}
}
