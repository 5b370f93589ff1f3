package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Redis     RedisConfig
	NATS      NATSConfig
	LINE      LINEConfig
	Email     EmailConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	LogLevel string // silent, error, warn, info
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

// RedisConfig enables the shared idempotency store when Addr is set
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NATSConfig enables document event publishing when URL is set
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type LINEConfig struct {
	ChannelAccessToken string
	ChannelSecret      string
	APIBaseURL         string
}

func (c LINEConfig) Enabled() bool {
	return c.ChannelAccessToken != ""
}

type EmailConfig struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
			LogLevel: viper.GetString("DB_LOG_LEVEL"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      time.Duration(viper.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
		},
		NATS: NATSConfig{
			URL:           viper.GetString("NATS_URL"),
			SubjectPrefix: viper.GetString("NATS_SUBJECT_PREFIX"),
		},
		LINE: LINEConfig{
			ChannelAccessToken: viper.GetString("LINE_CHANNEL_ACCESS_TOKEN"),
			ChannelSecret:      viper.GetString("LINE_CHANNEL_SECRET"),
			APIBaseURL:         viper.GetString("LINE_API_BASE_URL"),
		},
		Email: EmailConfig{
			Enabled:      viper.GetBool("EMAIL_ENABLED"),
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("SMTP_FROM_NAME"),
			FromEmail:    viper.GetString("SMTP_FROM_EMAIL"),
		},
		Admin: AdminConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
			Name:     viper.GetString("ADMIN_NAME"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "fms-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "fms")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Bangkok")
	viper.SetDefault("DB_LOG_LEVEL", "warn")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
	viper.SetDefault("NATS_SUBJECT_PREFIX", "fms.documents")
	viper.SetDefault("LINE_API_BASE_URL", "https://api.line.me")
	viper.SetDefault("EMAIL_ENABLED", false)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "FMS")
	viper.SetDefault("ADMIN_NAME", "Administrator")
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.Name
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
