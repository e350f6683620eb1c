// Package store описывает порт хранилища именованных блобов.
package store

import (
	"context"
	"errors"
	"time"
)

// Ошибки хранилища.
var (
	// ErrNotFound возвращается, когда ключ отсутствует в хранилище.
	ErrNotFound = errors.New("key not found")
	// ErrWatchUnsupported возвращается, если хранилище не сообщает об изменениях.
	ErrWatchUnsupported = errors.New("store does not support change notifications")
)

// Ключи хранилища.
const (
	KeyNotes          = "notes"
	KeyCategories     = "categories"
	KeySettings       = "settings"
	KeyAuthToken      = "authToken"
	KeyAppInitialized = "appInitialized"
)

// AllKeys перечисляет все ключи, которыми владеет клиент.
var AllKeys = []string{KeyNotes, KeyCategories, KeySettings, KeyAuthToken, KeyAppInitialized}

// BlobStore - хранилище значений по строковому ключу.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Watcher реализуют хранилища, которые могут сообщать об изменениях,
// сделанных другими процессами.
type Watcher interface {
	// Watch блокируется до отмены ctx и вызывает onChange с набором
	// измененных ключей. События в пределах debounce объединяются.
	Watch(ctx context.Context, debounce time.Duration, onChange func(ctx context.Context, keys []string)) error
}
