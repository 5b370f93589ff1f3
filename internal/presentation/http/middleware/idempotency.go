package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/repository"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/response"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Store repository.IdempotencyRepository
	TTL   time.Duration
	Log   *zap.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored 2xx response of a create request when the
// same caller repeats its Idempotency-Key on the same endpoint. A key reused
// on another endpoint is rejected with 422. Requests without the header, and
// anonymous ones, pass through.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = IdempotencyKeyTTL
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		v, exists := c.Get(ContextUserID)
		userID, ok := v.(uuid.UUID)
		if !exists || !ok {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		endpoint := c.Request.Method + " " + c.FullPath()
		existing, err := cfg.Store.GetByKey(ctx, key, userID)
		if err != nil {
			log.Warn("idempotency lookup failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired() {
			if existing.Endpoint != endpoint {
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key has already been used for a different request.")
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          key,
			UserID:       userID,
			Endpoint:     endpoint,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(ttl),
		}
		if err := cfg.Store.Create(ctx, ikey); err != nil {
			log.Warn("failed to store idempotency key", zap.String("key", key), zap.Error(err))
		}
	}
}
