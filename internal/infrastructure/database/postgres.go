package database

import (
	"fmt"

	"github.com/sangkips/fms-api/internal/config"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.Driver
func Open(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	if cfg.Driver == "sqlite" {
		return NewSQLiteDB(cfg.DSN(), cfg.LogLevel)
	}
	return NewPostgresDB(cfg, log)
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.User{},

		// Documents
		&entity.Quotation{},
		&entity.QuotationItem{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.Receipt{},

		// System entities
		&entity.Notification{},
		&entity.AuditLog{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SeedAdmin creates the bootstrap Admin account when credentials are configured
// and no account with that email exists yet.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig, log *zap.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", cfg.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if count > 0 {
		log.Debug("admin user already exists", zap.String("email", cfg.Email))
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "Administrator"
	}
	admin := entity.User{
		Name:         name,
		Email:        cfg.Email,
		Role:         enum.RoleAdmin,
		PasswordHash: string(hashed),
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info("admin user created", zap.String("email", cfg.Email))
	return nil
}
