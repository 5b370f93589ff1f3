package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/fms-api/internal/config"
)

var (
	defaultOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	defaultMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodDelete, http.MethodOptions,
	}
	defaultHeaders = []string{
		"Accept", "Authorization", "Content-Type", "Origin",
		"X-Request-ID", IdempotencyKeyHeader,
	}
)

// CORSMiddleware creates a CORS middleware with the provided configuration.
// Empty settings fall back to development defaults.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "X-Request-ID", "X-Idempotency-Replayed"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = defaultOrigins
	}
	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = defaultMethods
	}
	if len(corsConfig.AllowHeaders) == 0 {
		corsConfig.AllowHeaders = defaultHeaders
	} else if !slices.Contains(corsConfig.AllowHeaders, IdempotencyKeyHeader) {
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, IdempotencyKeyHeader)
	}

	return cors.New(corsConfig)
}
