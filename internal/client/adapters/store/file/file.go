// Package file содержит хранилище блобов в каталоге: один JSON-файл на ключ.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"

	"notasapp/internal/client/ports/store"
	"notasapp/pkg/logger"
)

const (
	ErrCreateDir   = "failed to create store directory"
	ErrInvalidKey  = "invalid store key"
	ErrReadBlob    = "failed to read blob"
	ErrWriteBlob   = "failed to write blob"
	ErrDeleteBlob  = "failed to delete blob"
	fileExtension  = ".json"
	tempFilePrefix = ".tmp-"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store хранит значения в файлах каталога dir.
type Store struct {
	dir string
}

// New создает каталог при необходимости.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateDir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%s: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+fileExtension), nil
}

// Get читает файл ключа.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		logger.Log(ctx).Error(ctx, ErrReadBlob, zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrReadBlob, err)
	}
	return data, nil
}

// Set атомарно заменяет файл ключа: запись во временный файл и rename.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, tempFilePrefix+key)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrWriteBlob, err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(value)
	if werr == nil {
		werr = tmp.Sync()
	}
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmpName, p)
	}
	if werr != nil {
		_ = os.Remove(tmpName)
		logger.Log(ctx).Error(ctx, ErrWriteBlob, zap.String("key", key), zap.Error(werr))
		return fmt.Errorf("%s: %w", ErrWriteBlob, werr)
	}
	return nil
}

// Delete удаляет файл ключа.
func (s *Store) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", ErrDeleteBlob, err)
	}
	return nil
}

// Close ничего не делает.
func (s *Store) Close() error { return nil }
