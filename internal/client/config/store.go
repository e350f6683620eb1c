package config

import (
	"errors"
	"fmt"
	"time"
)

// Поддерживаемые хранилища.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// ErrUnknownBackend - неизвестное значение NOTAS_STORE_BACKEND.
var ErrUnknownBackend = errors.New("unknown store backend")

// StoreConfig содержит настройки локального хранилища.
type StoreConfig struct {
	Backend  string         `yaml:"backend" env:"NOTAS_STORE_BACKEND" env-default:"file"`
	Profile  string         `yaml:"profile" env:"NOTAS_STORE_PROFILE" env-default:"default"`
	Dir      string         `yaml:"dir" env:"NOTAS_STORE_DIR" env-default:".notas"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`

	// TokenKeyring переносит токен авторизации в системное хранилище секретов.
	TokenKeyring bool `yaml:"token_keyring" env:"NOTAS_TOKEN_KEYRING" env-default:"false"`
}

// Validate проверяет выбранное хранилище.
func (s *StoreConfig) Validate() error {
	switch s.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendPostgres:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
}

// RedisConfig содержит настройки Redis-хранилища.
type RedisConfig struct {
	Host     string        `yaml:"host" env:"NOTAS_REDIS_HOST" env-default:"localhost"`
	Port     int           `yaml:"port" env:"NOTAS_REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"NOTAS_REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"db" env:"NOTAS_REDIS_DB" env-default:"0"`
	PoolSize int           `yaml:"pool_size" env:"NOTAS_REDIS_POOL_SIZE" env-default:"10"`
	Timeout  time.Duration `yaml:"timeout" env:"NOTAS_REDIS_TIMEOUT" env-default:"5s"`
}

// KeyPrefix возвращает префикс ключей профиля.
func (s *StoreConfig) KeyPrefix() string {
	return "notas:" + s.Profile
}

// PostgresConfig содержит настройки Postgres-хранилища.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"NOTAS_POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"NOTAS_POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"NOTAS_POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"NOTAS_POSTGRES_PASSWORD" env-default:"postgres"`
	Database string `yaml:"database" env:"NOTAS_POSTGRES_DB" env-default:"notas"`
	MinConn  int    `yaml:"min_conn" env:"NOTAS_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn  int    `yaml:"max_conn" env:"NOTAS_POSTGRES_MAX_CONN" env-default:"4"`
	// Migrations - каталог SQL-миграций таблицы blobs.
	Migrations string `yaml:"migrations" env:"NOTAS_POSTGRES_MIGRATIONS" env-default:"migrations/store"`
}

// GetDSN возвращает строку подключения к PostgreSQL.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Database)
}

// GetConnectionURL возвращает URL-строку подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.Database)
}
