// Package keyring хранит токен авторизации в системном хранилище секретов,
// остальные ключи передает вложенному хранилищу.
package keyring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zalando/go-keyring"

	"notasapp/internal/client/ports/store"
)

// DefaultService - имя сервиса в системном хранилище секретов.
const DefaultService = "notas"

const (
	ErrReadSecret   = "failed to read token from keyring"
	ErrWriteSecret  = "failed to write token to keyring"
	ErrDeleteSecret = "failed to delete token from keyring"
)

// Store перенаправляет ключ authToken в системное хранилище секретов.
type Store struct {
	next    store.BlobStore
	service string
	user    string
}

// New оборачивает next. profile различает токены разных профилей.
func New(next store.BlobStore, service, profile string) *Store {
	return &Store{next: next, service: service, user: profile}
}

var (
	_ store.BlobStore = (*Store)(nil)
	_ store.Watcher   = (*Store)(nil)
)

// Get читает токен из keyring, остальные ключи из next.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if key != store.KeyAuthToken {
		return s.next.Get(ctx, key)
	}
	secret, err := keyring.Get(s.service, s.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrReadSecret, err)
	}
	return []byte(secret), nil
}

// Set записывает токен в keyring, остальные ключи в next.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if key != store.KeyAuthToken {
		return s.next.Set(ctx, key, value)
	}
	if err := keyring.Set(s.service, s.user, string(value)); err != nil {
		return fmt.Errorf("%s: %w", ErrWriteSecret, err)
	}
	return nil
}

// Delete удаляет ключ. Отсутствующий токен не считается ошибкой.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key != store.KeyAuthToken {
		return s.next.Delete(ctx, key)
	}
	if err := keyring.Delete(s.service, s.user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%s: %w", ErrDeleteSecret, err)
	}
	return nil
}

// Close закрывает вложенное хранилище.
func (s *Store) Close() error {
	return s.next.Close()
}

// Watch передает наблюдение вложенному хранилищу. Изменения токена в
// keyring не отслеживаются.
func (s *Store) Watch(ctx context.Context, debounce time.Duration, onChange func(ctx context.Context, keys []string)) error {
	w, ok := s.next.(store.Watcher)
	if !ok {
		return store.ErrWatchUnsupported
	}
	return w.Watch(ctx, debounce, onChange)
}
