package config

import (
	"time"

	"notasapp/pkg/db/redis"
)

// Бэкенды кэша профилей.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// CacheConfig содержит настройки кэша профилей пользователей.
type CacheConfig struct {
	Backend       string        `yaml:"backend" env:"NOTAS_SERVER_CACHE_BACKEND" env-default:"memory"`
	TTL           time.Duration `yaml:"ttl" env:"NOTAS_SERVER_CACHE_TTL" env-default:"15m"`
	RedisHost     string        `yaml:"redis_host" env:"NOTAS_SERVER_REDIS_HOST" env-default:"localhost"`
	RedisPort     int           `yaml:"redis_port" env:"NOTAS_SERVER_REDIS_PORT" env-default:"6379"`
	RedisPassword string        `yaml:"redis_password" env:"NOTAS_SERVER_REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"NOTAS_SERVER_REDIS_DB" env-default:"0"`
	RedisPrefix   string        `yaml:"redis_prefix" env:"NOTAS_SERVER_REDIS_PREFIX" env-default:"notas-server:"`
}

// GetRedisConfig возвращает настройки подключения к Redis.
func (c *CacheConfig) GetRedisConfig() *redis.Config {
	cfg := redis.DefaultConfig()
	cfg.Host = c.RedisHost
	cfg.Port = c.RedisPort
	cfg.Password = c.RedisPassword
	cfg.DB = c.RedisDB
	return cfg
}
