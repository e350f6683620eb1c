package config

import "time"

// JWTConfig содержит настройки для токенов и хеширования паролей.
type JWTConfig struct {
	SecretKey  string `yaml:"secret_key" env:"NOTAS_SERVER_JWT_SECRET_KEY" env-default:"super-secret-key-change-me-in-production"`
	TokenTTL   string `yaml:"token_ttl" env:"NOTAS_SERVER_JWT_TOKEN_TTL" env-default:"720h"`
	BCryptCost int    `yaml:"bcrypt_cost" env:"NOTAS_SERVER_JWT_BCRYPT_COST" env-default:"10"`
}

// GetTokenTTL возвращает время жизни токена. Некорректное значение заменяется на 30 дней.
func (c *JWTConfig) GetTokenTTL() time.Duration {
	duration, err := time.ParseDuration(c.TokenTTL)
	if err != nil || duration <= 0 {
		return 30 * 24 * time.Hour
	}
	return duration
}
