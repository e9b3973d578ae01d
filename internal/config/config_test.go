package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.False(t, cfg.GoogleEnabled())
	assert.False(t, cfg.DiscordEnabled())
	assert.False(t, cfg.EmailEnabled())
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "camp@example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	assert.True(t, cfg.EmailEnabled())
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("CAMP_TEST_DOTENV_SECRET=from-file\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Cleanup(func() { os.Unsetenv("CAMP_TEST_DOTENV_SECRET") })

	_, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-file", os.Getenv("CAMP_TEST_DOTENV_SECRET"))
}

func TestValidate(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		cfg := &Config{DatabaseDriver: "sqlite", DatabasePath: "x.db"}
		assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
	})

	t.Run("postgres needs url", func(t *testing.T) {
		cfg := &Config{DatabaseDriver: "postgres", JWTSecret: "s"}
		assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &Config{DatabaseDriver: "oracle", JWTSecret: "s"}
		assert.ErrorContains(t, cfg.Validate(), "unsupported")
	})

	t.Run("ok", func(t *testing.T) {
		cfg := &Config{DatabaseDriver: "sqlite", DatabasePath: "x.db", JWTSecret: "s"}
		assert.NoError(t, cfg.Validate())
	})
}
