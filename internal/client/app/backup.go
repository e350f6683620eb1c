package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/domain/services"
	"notasapp/pkg/logger"
)

const (
	logBackupExported = "backup exported"
	logBackupImported = "backup imported"
)

// Backup экспортирует и импортирует данные клиента в JSON.
type Backup struct {
	lib  *Library
	opts options
}

// NewBackup создает новый экземпляр Backup.
func NewBackup(lib *Library, opts ...Option) *Backup {
	return &Backup{lib: lib, opts: buildOptions(opts)}
}

// Export записывает сохраненные заметки, категории и настройки в w.
func (b *Backup) Export(ctx context.Context, w io.Writer) error {
	repo := b.lib.Repository()

	notes, err := repo.LoadNotes(ctx)
	if err != nil {
		return err
	}
	cats, err := repo.LoadCategories(ctx)
	if err != nil {
		return err
	}
	settings, _, err := repo.LoadSettings(ctx)
	if err != nil {
		return err
	}

	doc := entities.Backup{
		Notes:      notes,
		Categories: cats,
		Settings:   &settings,
		ExportedAt: b.opts.now().UTC(),
		Version:    entities.BackupVersion,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	logger.Log(ctx).Info(ctx, logBackupExported, zap.Int("notes", len(notes)), zap.Int("categories", len(cats)))
	return nil
}

// Import заменяет заметки, категории и, если есть, настройки данными из r.
// Файл без ключей notes и categories отклоняется без записи, неудачная
// запись возвращает хранилище к прежнему состоянию.
func (b *Backup) Import(ctx context.Context, r io.Reader) error {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}

	rawNotes, ok := raw["notes"]
	if !ok || isNull(rawNotes) {
		return fmt.Errorf("%w: missing notes", ErrInvalidBackup)
	}
	rawCats, ok := raw["categories"]
	if !ok || isNull(rawCats) {
		return fmt.Errorf("%w: missing categories", ErrInvalidBackup)
	}

	notes, _, err := services.MigrateLegacyNotes(rawNotes)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	var cats []entities.Category
	if err := json.Unmarshal(rawCats, &cats); err != nil {
		return fmt.Errorf("%w: categories: %w", ErrInvalidBackup, err)
	}
	if cats == nil {
		cats = []entities.Category{}
	}

	var settings *entities.AppSettings
	if rawSettings, ok := raw["settings"]; ok && !isNull(rawSettings) {
		s := entities.DefaultSettings()
		if err := json.Unmarshal(rawSettings, &s); err != nil {
			return fmt.Errorf("%w: settings: %w", ErrInvalidBackup, err)
		}
		settings = &s
	}

	if err := b.lib.Replace(ctx, notes, cats, settings); err != nil {
		return err
	}

	logger.Log(ctx).Info(ctx, logBackupImported, zap.Int("notes", len(notes)), zap.Int("categories", len(cats)))
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
