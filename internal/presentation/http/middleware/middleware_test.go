package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/config"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withActor stands in for the auth middleware
func withActor(actor *service.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor != nil {
			setUser(c, actor, actor.Name+"@example.com")
		}
		c.Next()
	}
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name  string
		actor *service.Actor
		want  int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"user", &service.Actor{ID: uuid.New(), Name: "u", Role: enum.RoleUser}, http.StatusForbidden},
		{"admin", &service.Actor{ID: uuid.New(), Name: "a", Role: enum.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin", withActor(tt.actor), RequireRole(enum.RoleAdmin), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := serve(r, http.MethodGet, "/admin", nil)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "Admin")
			}
		})
	}
}

func TestAuthMiddleware_RejectsMalformedHeader(t *testing.T) {
	r := gin.New()
	r.GET("/p", AuthMiddleware(nil, nil, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/p", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/p", map[string]string{"Authorization": "Token abc"}).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/p", map[string]string{"Authorization": "Bearer"}).Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Stop()

	alice := &service.Actor{ID: uuid.New(), Name: "alice", Role: enum.RoleUser}
	bob := &service.Actor{ID: uuid.New(), Name: "bob", Role: enum.RoleUser}

	r := gin.New()
	r.GET("/alice", withActor(alice), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bob", withActor(bob), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/alice", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/alice", nil).Code)

	w := serve(r, http.MethodGet, "/alice", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// limits are per caller
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/bob", nil).Code)
}

func TestRateLimiterConfigFrom_Defaults(t *testing.T) {
	cfg := RateLimiterConfigFrom(config.RateLimitConfig{})
	assert.Equal(t, 100, cfg.BurstSize)
	assert.InDelta(t, 100.0/60.0, cfg.RequestsPerSecond, 1e-9)
}

type memoryStore struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryStore() *memoryStore {
	return &memoryStore{keys: make(map[string]*entity.IdempotencyKey)}
}

func (m *memoryStore) GetByKey(_ context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[userID.String()+":"+key], nil
}

func (m *memoryStore) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[ikey.UserID.String()+":"+ikey.Key] = ikey
	return nil
}

func (m *memoryStore) DeleteExpired(context.Context) (int64, error) { return 0, nil }

func TestIdempotency(t *testing.T) {
	store := newMemoryStore()
	alice := &service.Actor{ID: uuid.New(), Name: "alice", Role: enum.RoleUser}
	bob := &service.Actor{ID: uuid.New(), Name: "bob", Role: enum.RoleUser}

	calls := 0
	create := func(c *gin.Context) {
		calls++
		if c.Query("fail") != "" {
			c.JSON(http.StatusBadRequest, gin.H{"calls": calls})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"calls": calls})
	}

	mw := Idempotency(IdempotencyConfig{Store: store, TTL: time.Hour})
	r := gin.New()
	r.POST("/alice", withActor(alice), mw, create)
	r.POST("/bob", withActor(bob), mw, create)
	r.POST("/anon", withActor(nil), mw, create)

	key := map[string]string{IdempotencyKeyHeader: "k1"}

	first := serve(r, http.MethodPost, "/alice", key)
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get("X-Idempotency-Replayed"))

	replay := serve(r, http.MethodPost, "/alice", key)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	assert.Equal(t, 1, calls)

	// keys are scoped to the caller
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/bob", key).Code)
	assert.Equal(t, 2, calls)

	// no header, or no caller, means no replay
	serve(r, http.MethodPost, "/alice", nil)
	serve(r, http.MethodPost, "/anon", key)
	serve(r, http.MethodPost, "/anon", key)
	assert.Equal(t, 5, calls)

	// failures are not stored
	failKey := map[string]string{IdempotencyKeyHeader: "k2"}
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/alice?fail=1", failKey).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/alice?fail=1", failKey).Code)
	assert.Equal(t, 7, calls)
}

func TestIdempotency_ExpiredKeyRunsAgain(t *testing.T) {
	store := newMemoryStore()
	alice := &service.Actor{ID: uuid.New(), Name: "alice", Role: enum.RoleUser}
	require.NoError(t, store.Create(context.Background(), &entity.IdempotencyKey{
		Key:          "old",
		UserID:       alice.ID,
		ResponseCode: http.StatusCreated,
		ResponseBody: `{"stale":true}`,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))

	r := gin.New()
	r.POST("/q", withActor(alice), Idempotency(IdempotencyConfig{Store: store}), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"fresh": true})
	})

	w := serve(r, http.MethodPost, "/q", map[string]string{IdempotencyKeyHeader: "old"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "fresh")
}

func TestIdempotency_KeyReusedOnOtherEndpoint(t *testing.T) {
	store := newMemoryStore()
	alice := &service.Actor{ID: uuid.New(), Name: "alice", Role: enum.RoleUser}

	var quotations, invoices int
	mw := Idempotency(IdempotencyConfig{Store: store, TTL: time.Hour})
	r := gin.New()
	r.POST("/quotations", withActor(alice), mw, func(c *gin.Context) {
		quotations++
		c.JSON(http.StatusCreated, gin.H{"kind": "quotation"})
	})
	r.POST("/invoices", withActor(alice), mw, func(c *gin.Context) {
		invoices++
		c.JSON(http.StatusCreated, gin.H{"kind": "invoice"})
	})

	key := map[string]string{IdempotencyKeyHeader: "shared"}
	require.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/quotations", key).Code)

	w := serve(r, http.MethodPost, "/invoices", key)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotContains(t, w.Body.String(), "quotation")
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 0, invoices)

	// the original endpoint still replays
	replay := serve(r, http.MethodPost, "/quotations", key)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 1, quotations)
}
