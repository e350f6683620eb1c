package config

import (
	"time"

	"notasapp/pkg/resilience"
)

// RemoteConfig содержит настройки удаленного API.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url" env:"NOTAS_API_URL" env-default:"http://localhost:8080"`
	Timeout time.Duration `yaml:"timeout" env:"NOTAS_API_TIMEOUT" env-default:"10s"`

	RetryAttempts int           `yaml:"retry_attempts" env:"NOTAS_API_RETRY_ATTEMPTS" env-default:"3"`
	RetryBackoff  time.Duration `yaml:"retry_backoff" env:"NOTAS_API_RETRY_BACKOFF" env-default:"200ms"`

	BreakerThreshold int           `yaml:"breaker_threshold" env:"NOTAS_API_BREAKER_THRESHOLD" env-default:"5"`
	BreakerTimeout   time.Duration `yaml:"breaker_timeout" env:"NOTAS_API_BREAKER_TIMEOUT" env-default:"30s"`
}

// GetRetryConfig возвращает настройки повторных попыток.
func (c *RemoteConfig) GetRetryConfig() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = c.RetryAttempts
	if c.RetryBackoff > 0 {
		cfg.InitialBackoff = c.RetryBackoff
		cfg.MaxBackoff = 8 * c.RetryBackoff
	}
	return cfg
}

// GetBreakerConfig возвращает настройки Circuit Breaker.
func (c *RemoteConfig) GetBreakerConfig() resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig()
	if c.BreakerThreshold > 0 {
		cfg.ErrorThreshold = c.BreakerThreshold
	}
	if c.BreakerTimeout > 0 {
		cfg.Timeout = c.BreakerTimeout
	}
	return cfg
}
