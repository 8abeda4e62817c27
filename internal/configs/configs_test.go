package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS", "JWT_SECRET", "DATABASE_URL",
		"S3_BUCKET_NAME", "S3_ENDPOINT", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.False(t, cfg.AttachmentsEnabled())
}

func TestLoadConfigInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigPrivilegedPortRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "80")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigParsesAllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigProductionRequiresJWTSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/livedocs")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigProductionRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "secret")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigProductionComplete(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/livedocs")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "postgres://localhost/livedocs", cfg.DatabaseDSN)
}

func TestLoadConfigS3RequiresCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("S3_BUCKET_NAME", "livedocs-attachments")
	t.Setenv("S3_ENDPOINT", "https://s3.example.com")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("S3_ACCESS_KEY_ID", "key")
	_, err = LoadConfig()
	require.Error(t, err)

	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.AttachmentsEnabled())
}
