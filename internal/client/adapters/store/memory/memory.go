// Package memory содержит хранилище блобов в памяти процесса.
package memory

import (
	"context"
	"sync"

	"notasapp/internal/client/ports/store"
)

// Store хранит значения в map под RWMutex.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New создает пустое хранилище.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get возвращает копию значения.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set сохраняет копию значения.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = v
	return nil
}

// Delete удаляет ключ. Отсутствующий ключ не является ошибкой.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Close ничего не делает.
func (s *Store) Close() error { return nil }
