package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/config"
	"github.com/sangkips/fms-api/internal/infrastructure/cache"
	"github.com/sangkips/fms-api/internal/infrastructure/database"
	"github.com/sangkips/fms-api/internal/infrastructure/messaging"
	"github.com/sangkips/fms-api/internal/infrastructure/metrics"
	"github.com/sangkips/fms-api/internal/infrastructure/notifier"
	"github.com/sangkips/fms-api/internal/infrastructure/pdf"
	"github.com/sangkips/fms-api/internal/infrastructure/repository"
	"github.com/sangkips/fms-api/internal/presentation/http/handler"
	"github.com/sangkips/fms-api/internal/presentation/http/middleware"
	"github.com/sangkips/fms-api/internal/presentation/http/routes"
	"github.com/sangkips/fms-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.SeedAdmin(db, cfg.Admin, logger); err != nil {
		logger.Warn("failed to seed admin account", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	repos := repository.NewRepositories(db)
	uow := repository.NewUnitOfWork(db)
	collector := metrics.NewCollector()

	// Idempotency responses live in redis when available, else in the database
	idempotencyStore := cache.NewIdempotencyStore(nil, repository.NewIdempotencyRepository(db), logger)
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, idempotency keys stored in database", zap.Error(err))
		} else {
			defer client.Close()
			idempotencyStore = cache.NewIdempotencyStore(client, repository.NewIdempotencyRepository(db), logger)
		}
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go idempotencyStore.RunJanitor(janitorCtx, time.Hour)

	var publisher service.EventPublisher
	if cfg.NATS.URL != "" {
		nc, err := messaging.Connect(cfg.NATS.URL, cfg.App.Name, logger)
		if err != nil {
			logger.Warn("NATS unavailable, document events disabled", zap.Error(err))
		} else {
			defer nc.Drain()
			publisher = messaging.NewNATSPublisher(nc, cfg.NATS.SubjectPrefix, logger)
		}
	}

	var channels []service.Notifier
	var replier handler.Replier
	if cfg.LINE.Enabled() {
		lineClient := notifier.NewLineClient(cfg.LINE.APIBaseURL, cfg.LINE.ChannelAccessToken)
		channels = append(channels, notifier.NewLineNotifier(lineClient))
		replier = lineClient
	}
	if cfg.Email.Enabled {
		channels = append(channels, notifier.NewEmailNotifier(cfg.Email))
	}

	notificationService := service.NewNotificationService(channels, repos.Users, repos.Notifications, publisher, collector, logger)
	chainer := service.NewDocumentChainer()

	authService := service.NewAuthService(repos.Users, jwtManager, logger)
	quotationService := service.NewQuotationService(repos, uow, chainer, notificationService, collector, logger)
	invoiceService := service.NewInvoiceService(repos, uow, chainer, notificationService, collector, logger)
	receiptService := service.NewReceiptService(repos, uow, notificationService, collector, logger)
	auditLogService := service.NewAuditLogService(repos.AuditLogs, logger)
	lineLinkService := service.NewLineLinkService(repos.Users, logger)

	renderer := pdf.NewRenderer(cfg.App.Name)

	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Quotation:    handler.NewQuotationHandler(quotationService, auditLogService, renderer),
		Invoice:      handler.NewInvoiceHandler(invoiceService, auditLogService, renderer),
		Receipt:      handler.NewReceiptHandler(receiptService, auditLogService, renderer),
		Log:          handler.NewLogHandler(auditLogService),
		Notification: handler.NewNotificationHandler(notificationService),
		Line:         handler.NewLineHandler(cfg.LINE.ChannelSecret, lineLinkService, replier, logger),
		Health:       handler.NewHealthHandler(db),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit))
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:       jwtManager,
		Cfg:              cfg,
		Users:            repos.Users,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
		Metrics:          collector,
		Log:              logger,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("app", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.Int("notification_channels", len(channels)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
