package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/petcare")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "America/Sao_Paulo", cfg.ClinicLocation.String())
	assert.Equal(t, 15*time.Minute, cfg.SlotInterval)
	assert.False(t, cfg.DBAutoMigrate)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.GeminiAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("CLINIC_TIMEZONE", "UTC")
	t.Setenv("SLOT_INTERVAL_MINUTES", "30")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, time.UTC, cfg.ClinicLocation)
	assert.Equal(t, 30*time.Minute, cfg.SlotInterval)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing dsn", "DB_DSN", ""},
		{"missing secret", "JWT_SECRET", ""},
		{"bad ttl", "JWT_ACCESS_TOKEN_TTL", "soon"},
		{"bad timezone", "CLINIC_TIMEZONE", "Mars/Olympus"},
		{"zero interval", "SLOT_INTERVAL_MINUTES", "0"},
		{"bad bool", "DB_AUTO_MIGRATE", "maybe"},
		{"bad redis db", "REDIS_DB", "one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
