package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notasapp/internal/client/config"
	"notasapp/pkg/logger"
)

func TestLoad(t *testing.T) {
	logger.SetGlobalLogger(logger.NewNop())
	defer logger.SetGlobalLogger(nil)

	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, config.BackendFile, cfg.Store.Backend)
		assert.Equal(t, "notas:default", cfg.Store.KeyPrefix())
		assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
		assert.Equal(t, 3, cfg.Remote.GetRetryConfig().MaxAttempts)
		assert.Equal(t, 200*time.Millisecond, cfg.Remote.GetRetryConfig().InitialBackoff)
		assert.Equal(t, 5, cfg.Remote.GetBreakerConfig().ErrorThreshold)
		assert.Equal(t, 30*time.Second, cfg.Remote.GetBreakerConfig().Timeout)
		assert.Equal(t, time.Hour, cfg.Scheduler.SweepInterval)
		assert.Equal(t, 30*time.Second, cfg.Scheduler.PendingCheckInterval)
		assert.Equal(t, 15*time.Second, cfg.Scheduler.ProbeInterval)
		assert.Equal(t, logger.Development, cfg.Logging.GetEnvironment())
		assert.Equal(t, 5*time.Second, cfg.Shutdown.GetTimeout())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("NOTAS_STORE_BACKEND", "redis")
		t.Setenv("NOTAS_STORE_PROFILE", "work")
		t.Setenv("NOTAS_API_URL", "http://api.local")
		t.Setenv("NOTAS_API_TIMEOUT", "3s")
		t.Setenv("NOTAS_LOGGER_MODE", "production")
		t.Setenv("NOTAS_POSTGRES_HOST", "db")

		cfg, err := config.Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
		assert.Equal(t, "notas:work", cfg.Store.KeyPrefix())
		assert.Equal(t, "http://api.local", cfg.Remote.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
		assert.Equal(t, logger.Production, cfg.Logging.GetEnvironment())
		assert.Equal(t, "postgres://postgres:postgres@db:5432/notas?sslmode=disable", cfg.Store.Postgres.GetConnectionURL())
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("NOTAS_STORE_BACKEND", "sqlite")

		_, err := config.Load(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrUnknownBackend)
	})
}

func TestLoadEnvFile(t *testing.T) {
	logger.SetGlobalLogger(logger.NewNop())
	defer logger.SetGlobalLogger(nil)

	path := filepath.Join(t.TempDir(), "notas.env")
	require.NoError(t, os.WriteFile(path, []byte("NOTAS_LOGGER_FILE=/tmp/notas-test.log\nNOTAS_API_TIMEOUT=4s\n"), 0o600))
	t.Setenv(config.EnvFileVar, path)
	t.Setenv("NOTAS_API_TIMEOUT", "2s")
	t.Cleanup(func() { _ = os.Unsetenv("NOTAS_LOGGER_FILE") })

	cfg, err := config.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/tmp/notas-test.log", cfg.Logging.GetFileConfig().Path)
	assert.Equal(t, 2*time.Second, cfg.Remote.Timeout, "process environment wins over the file")
}

func TestLoadMissingEnvFile(t *testing.T) {
	logger.SetGlobalLogger(logger.NewNop())
	defer logger.SetGlobalLogger(nil)

	t.Setenv(config.EnvFileVar, filepath.Join(t.TempDir(), "absent.env"))

	_, err := config.Load(context.Background())
	require.NoError(t, err)
}
