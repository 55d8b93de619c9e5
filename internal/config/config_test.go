package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/intake")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.SubmitRateLimit)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Zero(t, cfg.ProspectRetention)
	assert.Equal(t, time.Hour, cfg.RetentionTick)
	assert.False(t, cfg.Kommo.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadFromDotEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/intake")
	t.Setenv("KOMMO_API_TOKEN", "")
	os.Unsetenv("KOMMO_API_TOKEN")
	t.Setenv("KOMMO_BASE_URL", "")
	os.Unsetenv("KOMMO_BASE_URL")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KOMMO_API_TOKEN=tok\nKOMMO_BASE_URL=https://acme.kommo.com/api/v4\nCORS_ALLOWED_ORIGINS=https://a.com,https://b.com\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("KOMMO_API_TOKEN")
		os.Unsetenv("KOMMO_BASE_URL")
		os.Unsetenv("CORS_ALLOWED_ORIGINS")
	})

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.True(t, cfg.Kommo.Enabled())
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, cfg.AllowedOrigins)
}
