package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"smartalert/backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.True(t, cfg.StrictStatusTransitions)
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.Empty(t, cfg.RedisAddr)
	assert.True(t, cfg.UsesDefaultSecret())
}

func TestLoad_FileThenEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  addr: ":9000"
database:
  driver: postgres
  dsn: "host=db user=smartalert dbname=smartalert sslmode=disable"
redis:
  addr: "localhost:6379"
session:
  secret: from-file
  ttl_hours: 12
complaints:
  cache_ttl_seconds: 30
  strict_status_transitions: false
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("CACHE_TTL_SECONDS", "45")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "from-env", cfg.JWTSecret, "env must win over the file")
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 45*time.Second, cfg.CacheTTL)
	assert.False(t, cfg.StrictStatusTransitions)
	assert.False(t, cfg.UsesDefaultSecret())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestLoad_RejectsMalformedIntegers(t *testing.T) {
	for _, name := range []string{"REDIS_DB", "SESSION_TTL_HOURS", "CACHE_TTL_SECONDS"} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, "ten")

			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			require.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

	_, err := config.Load(path)

	assert.Error(t, err)
}

func TestIsCategory(t *testing.T) {
	assert.True(t, config.IsCategory("Infrastructure"))
	assert.True(t, config.IsCategory("Animal Control"))
	assert.False(t, config.IsCategory("infrastructure"))
	assert.False(t, config.IsCategory(""))
}
