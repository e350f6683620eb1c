package app

import (
	"context"

	"go.uber.org/zap"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/domain/services"
	"notasapp/pkg/logger"
)

const (
	logDefaultsSeeded = "default data initialized"
	logDataReset      = "client data reset"
)

// Bootstrap заполняет хранилище данными первого запуска.
type Bootstrap struct {
	lib  *Library
	opts options
}

// NewBootstrap создает новый экземпляр Bootstrap.
func NewBootstrap(lib *Library, opts ...Option) *Bootstrap {
	return &Bootstrap{lib: lib, opts: buildOptions(opts)}
}

// Run засевает категории, приветственную заметку и настройки, если
// хранилище еще не инициализировано. Возвращает true, если засев выполнен.
func (b *Bootstrap) Run(ctx context.Context) (bool, error) {
	repo := b.lib.Repository()

	initialized, err := repo.IsInitialized(ctx)
	if err != nil || initialized {
		return false, err
	}

	now := b.opts.now()
	hasCats, err := repo.HasCategories(ctx)
	if err != nil {
		return false, err
	}

	err = b.lib.Update(ctx, func(m *Mutation) error {
		if !hasCats {
			m.SetCategories(entities.DefaultCategories(now))
		}
		if _, ok := services.FindNote(m.Notes, entities.WelcomeNoteID); !ok {
			next := make([]entities.Note, 0, len(m.Notes)+1)
			next = append(next, entities.WelcomeNote(now))
			next = append(next, m.Notes...)
			m.SetNotes(next)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if _, ok, err := repo.LoadSettings(ctx); err != nil {
		return false, err
	} else if !ok {
		if err := repo.SaveSettings(ctx, entities.DefaultSettings()); err != nil {
			return false, err
		}
	}

	if err := repo.MarkInitialized(ctx); err != nil {
		return false, err
	}

	logger.Log(ctx).Info(ctx, logDefaultsSeeded, zap.Bool("categories_seeded", !hasCats))
	return true, nil
}

// Reset удаляет все данные клиента.
func (b *Bootstrap) Reset(ctx context.Context) error {
	if err := b.lib.Repository().Clear(ctx); err != nil {
		return err
	}
	if err := b.lib.Load(ctx); err != nil {
		return err
	}
	logger.Log(ctx).Info(ctx, logDataReset)
	return nil
}
