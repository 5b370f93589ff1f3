package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/fms-api/internal/config"
	"github.com/sangkips/fms-api/internal/domain/enum"
	domainRepo "github.com/sangkips/fms-api/internal/domain/repository"
	"github.com/sangkips/fms-api/internal/infrastructure/metrics"
	"github.com/sangkips/fms-api/internal/presentation/http/handler"
	"github.com/sangkips/fms-api/internal/presentation/http/middleware"
	"github.com/sangkips/fms-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Quotation    *handler.QuotationHandler
	Invoice      *handler.InvoiceHandler
	Receipt      *handler.ReceiptHandler
	Log          *handler.LogHandler
	Notification *handler.NotificationHandler
	Line         *handler.LineHandler
	Health       *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager       *utils.JWTManager
	Cfg              *config.Config
	Users            domainRepo.UserRepository
	IdempotencyStore domainRepo.IdempotencyRepository
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Collector
	Log              *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(deps.Log))
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h, deps)

		// LINE calls the webhook directly; it authenticates by signature
		v1.POST("/line/webhook", h.Line.Webhook)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.Users, deps.Log))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", middleware.OptionalAuthMiddleware(deps.JWTManager, deps.Users), h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.GET("/me", middleware.AuthMiddleware(deps.JWTManager, deps.Users, deps.Log), h.Auth.Me)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Store: deps.IdempotencyStore,
		TTL:   deps.Cfg.Redis.TTL,
		Log:   deps.Log,
	})
	admin := middleware.RequireRole(enum.RoleAdmin)

	registerQuotationRoutes(protected, h, idempotent, admin)
	registerInvoiceRoutes(protected, h, idempotent, admin)
	registerReceiptRoutes(protected, h, idempotent, admin)

	logs := protected.Group("/logs")
	{
		logs.GET("", admin, h.Log.List)
		logs.GET("/approver/:document_id", h.Log.Approver)
	}

	protected.GET("/notifications/me", h.Notification.ListMine)
}

func registerQuotationRoutes(protected *gin.RouterGroup, h *Handlers, idempotent, admin gin.HandlerFunc) {
	quotations := protected.Group("/quotations")
	{
		quotations.POST("", idempotent, h.Quotation.Create)
		quotations.GET("", admin, h.Quotation.List)
		quotations.GET("/me", h.Quotation.ListMine)
		quotations.GET("/number/:number", h.Quotation.GetByNumber)
		quotations.GET("/:id", h.Quotation.Get)
		quotations.GET("/:id/pdf", h.Quotation.PDF)
		quotations.PUT("/:id", h.Quotation.Update)
		quotations.DELETE("/:id", h.Quotation.Delete)
		quotations.PUT("/:id/submit", h.Quotation.Submit)
		quotations.PUT("/:id/approve", h.Quotation.Approve)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, idempotent, admin gin.HandlerFunc) {
	invoices := protected.Group("/invoices")
	{
		invoices.POST("", idempotent, h.Invoice.Create)
		invoices.GET("", admin, h.Invoice.List)
		invoices.GET("/me", h.Invoice.ListMine)
		invoices.GET("/number/:number", h.Invoice.GetByNumber)
		invoices.PUT("/number/:number", h.Invoice.UpdateByNumber)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.GET("/:id/pdf", h.Invoice.PDF)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.PUT("/:id/submit", h.Invoice.Submit)
		invoices.PUT("/:id/approve", h.Invoice.Approve)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers, idempotent, admin gin.HandlerFunc) {
	receipts := protected.Group("/receipts")
	{
		receipts.POST("", idempotent, h.Receipt.Create)
		receipts.GET("", admin, h.Receipt.List)
		receipts.GET("/me", h.Receipt.ListMine)
		receipts.GET("/number/:number", h.Receipt.GetByNumber)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.GET("/:id/pdf", h.Receipt.PDF)
		receipts.PUT("/:id/submit", h.Receipt.Submit)
		receipts.PUT("/:id/approve", h.Receipt.Approve)
	}
}
