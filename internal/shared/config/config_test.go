package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Second, cfg.ConversionTimeout)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Len(t, cfg.CORSAllowOrigin, 2)
	assert.True(t, cfg.IsDevLike())
	assert.False(t, cfg.SMTPConfigured())
}

func TestLoadProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("DATABASE_URL", "postgres://localhost/resumes")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
