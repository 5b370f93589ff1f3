package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "")
	cfg := Load()

	assert.Equal(t, "fms-api", cfg.App.Name)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiryHours)
	assert.Equal(t, "fms.documents", cfg.NATS.SubjectPrefix)
	assert.Equal(t, "https://api.line.me", cfg.LINE.APIBaseURL)
	assert.False(t, cfg.LINE.Enabled())
	assert.False(t, cfg.Email.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "token")

	cfg := Load()

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.LINE.Enabled())
}

func TestDSN(t *testing.T) {
	pg := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "fms", Port: "5432", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=fms port=5432 sslmode=disable TimeZone=UTC", pg.DSN())

	lite := DatabaseConfig{Driver: "sqlite", Name: "fms.db"}
	assert.Equal(t, "fms.db", lite.DSN())
}
