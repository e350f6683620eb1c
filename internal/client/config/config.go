// Package config содержит конфигурацию клиента заметок.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"notasapp/pkg/logger"
)

// Константы ошибок и сообщений для конфигурации.
const (
	LogLoadingConfig    = "Loading notes client configuration"
	LogConfigLoaded     = "Configuration loaded successfully"
	ErrFailedLoadConfig = "Failed to load configuration"
	ErrFailedLoadEnv    = "Failed to load env file"
	LogEnvFileLoaded    = "Env file loaded"
)

// EnvFileVar - переменная с путем к env-файлу. По умолчанию ".env".
// Значения из окружения имеют приоритет над файлом.
const EnvFileVar = "NOTAS_ENV_FILE"

// Config представляет полную конфигурацию клиента.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Remote    RemoteConfig    `yaml:"remote"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
	Shutdown  ShutdownConfig  `yaml:"shutdown"`
}

// Load загружает конфигурацию из переменных окружения.
func Load(ctx context.Context) (*Config, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogLoadingConfig)

	if err := loadEnvFile(ctx); err != nil {
		log.Error(ctx, ErrFailedLoadEnv, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadEnv, err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Error(ctx, ErrFailedLoadConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}
	if err := cfg.Store.Validate(); err != nil {
		log.Error(ctx, ErrFailedLoadConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	log.Info(ctx, LogConfigLoaded,
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("store_profile", cfg.Store.Profile),
		zap.String("remote_url", cfg.Remote.BaseURL),
		zap.Duration("remote_timeout", cfg.Remote.Timeout),
		zap.Duration("sweep_interval", cfg.Scheduler.SweepInterval),
		zap.Duration("pending_check_interval", cfg.Scheduler.PendingCheckInterval),
		zap.Duration("probe_interval", cfg.Scheduler.ProbeInterval),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return &cfg, nil
}

// loadEnvFile дополняет окружение значениями из env-файла, если он есть.
func loadEnvFile(ctx context.Context) error {
	path := os.Getenv(EnvFileVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	logger.Log(ctx).Info(ctx, LogEnvFileLoaded, zap.String("path", path))
	return nil
}
