// Package postgres содержит хранилище блобов в таблице Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"notasapp/internal/client/ports/store"
	"notasapp/pkg/logger"
)

// PgxPoolInterface - подмножество pgxpool.Pool, нужное хранилищу.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Close()
}

const (
	queryGet = `
        SELECT value
        FROM blobs
        WHERE profile = $1 AND key = $2
    `
	querySet = `
        INSERT INTO blobs (profile, key, value, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (profile, key) DO UPDATE
        SET value = EXCLUDED.value, updated_at = NOW()
    `
	queryDelete = `
        DELETE FROM blobs
        WHERE profile = $1 AND key = $2
    `
)

// Store хранит блобы в таблице blobs, разделенной по профилю.
type Store struct {
	pool    PgxPoolInterface
	profile string
}

// New создает хранилище поверх пула.
func New(pool PgxPoolInterface, profile string) *Store {
	return &Store{pool: pool, profile: profile}
}

// Get возвращает значение ключа.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	log := logger.Log(ctx).With(zap.String("repository", "blob"), zap.String("method", "Get"))

	var value []byte
	if err := s.pool.QueryRow(ctx, queryGet, s.profile, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Error(ctx, "error reading blob", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("error reading blob: %w", err)
	}
	return value, nil
}

// Set вставляет или заменяет значение ключа.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	log := logger.Log(ctx).With(zap.String("repository", "blob"), zap.String("method", "Set"))

	if _, err := s.pool.Exec(ctx, querySet, s.profile, key, value); err != nil {
		log.Error(ctx, "error writing blob", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("error writing blob: %w", err)
	}
	return nil
}

// Delete удаляет ключ.
func (s *Store) Delete(ctx context.Context, key string) error {
	log := logger.Log(ctx).With(zap.String("repository", "blob"), zap.String("method", "Delete"))

	if _, err := s.pool.Exec(ctx, queryDelete, s.profile, key); err != nil {
		log.Error(ctx, "error deleting blob", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("error deleting blob: %w", err)
	}
	return nil
}

// Close закрывает пул.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

var _ store.BlobStore = (*Store)(nil)
