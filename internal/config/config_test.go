package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.JWT.VerifyExpiration)
	assert.Equal(t, "pilani.bits-pilani.ac.in", cfg.Identity.TrustedDomain)
	assert.Equal(t, 5, cfg.Moderation.ReportThreshold)
	assert.Contains(t, cfg.Identity.TrustedIssuers, "accounts.google.com")
	assert.Equal(t, "memory", cfg.Database.Driver)
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil))

	t.Setenv("CORS_ALLOWED_ORIGINS", " , ")
	assert.Equal(t, []string{"x"}, getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"x"}))
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment: "production",
			Database:    DatabaseConfig{Driver: "postgres", Password: "secret"},
			JWT:         JWTConfig{SecretKey: "rotated"},
			Identity:    IdentityConfig{GoogleClientID: "client"},
			Storage:     StorageConfig{Driver: "s3"},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.JWT.SecretKey = defaultJWTSecret
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Identity.GoogleClientID = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Storage.Driver = "ftp"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "sqlite"
	assert.Error(t, cfg.Validate())
}
