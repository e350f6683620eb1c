package postgres

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // драйвер postgres для migrate
	_ "github.com/golang-migrate/migrate/v4/source/file"       // источник file://
	"go.uber.org/zap"

	"notasapp/pkg/logger"
)

const (
	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
	ErrResolveMigrationsPath   = "failed to resolve migrations path"
)

const filePrefix = "file://"

// Migrate применяет миграции из каталога migrationsDir к базе по URL.
func Migrate(ctx context.Context, databaseURL, migrationsDir string) error {
	log := logger.Log(ctx).With(zap.String("path", migrationsDir))

	source, err := SourceURL(migrationsDir)
	if err != nil {
		log.Error(ctx, ErrResolveMigrationsPath, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrResolveMigrationsPath, err)
	}

	m, err := migrate.New(source, databaseURL)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	log.Info(ctx, LogMigrationsApplied)
	return nil
}

// SourceURL превращает путь к каталогу в URL источника migrate.
func SourceURL(dir string) (string, error) {
	if strings.HasPrefix(dir, filePrefix) {
		return dir, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return filePrefix + filepath.ToSlash(abs), nil
}
