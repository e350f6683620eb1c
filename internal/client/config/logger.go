package config

import (
	"notasapp/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"NOTAS_LOGGER_LEVEL" env-default:"warn"`
	Mode  string `yaml:"mode" env:"NOTAS_LOGGER_MODE" env-default:"development"`

	// File включает запись в файл с ротацией. Пустое значение - только stderr.
	File       string `yaml:"file" env:"NOTAS_LOGGER_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"NOTAS_LOGGER_MAX_SIZE_MB" env-default:"10"`
	MaxBackups int    `yaml:"max_backups" env:"NOTAS_LOGGER_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"NOTAS_LOGGER_MAX_AGE_DAYS" env-default:"28"`
}

// GetEnvironment получает строку режима в logger.Environment.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if l.Mode == "production" {
		return logger.Production
	}
	return logger.Development
}

// GetFileConfig возвращает настройки файла лога.
func (l *LoggingConfig) GetFileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   true,
	}
}
