package app

import (
	"context"

	"go.uber.org/zap"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/domain/services"
	"notasapp/internal/client/ports/remote"
	"notasapp/pkg/logger"
)

const (
	logCategorySwappedID = "local category id replaced by server id"
)

// CategoryUseCase управляет категориями так же, как NoteUseCase заметками.
type CategoryUseCase struct {
	lib     *Library
	remote  remote.Remote
	session Session
	conn    Connectivity
	notes   *NoteUseCase
	opts    options
}

// NewCategoryUseCase создает новый экземпляр CategoryUseCase. notes
// используется для отправки заметок, затронутых удалением категории.
func NewCategoryUseCase(lib *Library, rem remote.Remote, session Session, conn Connectivity, notes *NoteUseCase, opts ...Option) *CategoryUseCase {
	return &CategoryUseCase{
		lib:     lib,
		remote:  rem,
		session: session,
		conn:    conn,
		notes:   notes,
		opts:    buildOptions(opts),
	}
}

// List возвращает все категории.
func (uc *CategoryUseCase) List() []entities.Category {
	return uc.lib.Categories()
}

// Get возвращает категорию по id.
func (uc *CategoryUseCase) Get(id string) (entities.Category, bool) {
	return services.FindCategory(uc.lib.Categories(), id)
}

// Add создает категорию.
func (uc *CategoryUseCase) Add(ctx context.Context, name, color string) (entities.Category, error) {
	var created entities.Category
	err := uc.lib.Update(ctx, func(m *Mutation) error {
		next, c, err := services.AddCategory(m.Categories, name, color, uc.opts.newID(), uc.opts.now())
		if err != nil {
			return err
		}
		m.SetCategories(next)
		created = c
		return nil
	})
	if err != nil {
		return entities.Category{}, err
	}

	id := uc.pushCreate(ctx, created)
	if c, ok := uc.Get(id); ok {
		return c, nil
	}
	return created, nil
}

// Update применяет patch к категории. Неизвестный id - no-op (false).
func (uc *CategoryUseCase) Update(ctx context.Context, id string, patch entities.CategoryPatch) (bool, error) {
	var changed bool
	err := uc.lib.Update(ctx, func(m *Mutation) error {
		next, ok, err := services.UpdateCategory(m.Categories, id, patch, uc.opts.now())
		if err != nil {
			return err
		}
		if ok {
			m.SetCategories(next)
		}
		changed = ok
		return nil
	})
	if err != nil || !changed {
		return false, err
	}

	uc.pushUpdate(ctx, id)
	return true, nil
}

// Delete удаляет пользовательскую категорию и ссылки на нее из заметок.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) (bool, error) {
	var (
		found   bool
		touched []string
	)
	err := uc.lib.Update(ctx, func(m *Mutation) error {
		if _, ok := services.FindCategory(m.Categories, id); !ok {
			return nil
		}
		cats, notes, t, err := services.DeleteCategory(m.Categories, m.Notes, id, uc.opts.now())
		if err != nil {
			return err
		}
		m.SetCategories(cats)
		if len(t) > 0 {
			m.SetNotes(notes)
		}
		found, touched = true, t
		return nil
	})
	if err != nil || !found {
		return false, err
	}

	uc.pushDelete(ctx, id)
	if uc.notes != nil {
		for _, noteID := range touched {
			uc.notes.pushUpdate(ctx, noteID)
		}
	}
	return true, nil
}

func (uc *CategoryUseCase) pushToken() (string, bool) {
	if uc.remote == nil || uc.session == nil || uc.conn == nil {
		return "", false
	}
	token := uc.session.Token()
	if token == "" || !uc.conn.IsOnline() {
		return "", false
	}
	return token, true
}

func (uc *CategoryUseCase) pushCreate(ctx context.Context, cat entities.Category) string {
	token, ok := uc.pushToken()
	if !ok {
		return cat.ID
	}
	log := logger.Log(ctx).With(zap.String("method", "CategoryUseCase.pushCreate"), zap.String("category_id", cat.ID))

	rctx, cancel := context.WithTimeout(ctx, uc.opts.timeout)
	saved, err := uc.remote.CreateCategory(rctx, token, cat)
	cancel()
	if err != nil {
		log.Warn(ctx, logPushFailed, zap.Error(err))
		return cat.ID
	}

	id := cat.ID
	var touched []string
	err = uc.lib.Update(ctx, func(m *Mutation) error {
		cats := m.Categories
		if saved.ID != "" && saved.ID != cat.ID {
			if c, n, t, swapped := services.ReplaceCategoryID(cats, m.Notes, cat.ID, saved.ID, uc.opts.now()); swapped {
				cats, id, touched = c, saved.ID, t
				if len(t) > 0 {
					m.SetNotes(n)
				}
			}
		}
		next, marked := services.MarkCategoriesSynced(cats, []services.Ack{{
			ID: id, LocalVersion: cat.LocalVersion, ServerVersion: saved.ServerVersion,
		}})
		if id != cat.ID || marked > 0 {
			m.SetCategories(next)
		}
		return nil
	})
	if err != nil {
		log.Warn(ctx, logPushFailed, zap.Error(err))
		return cat.ID
	}
	if id != cat.ID {
		log.Debug(ctx, logCategorySwappedID, zap.String("server_id", id))
	}
	if uc.notes != nil {
		for _, noteID := range touched {
			uc.notes.pushUpdate(ctx, noteID)
		}
	}
	return id
}

func (uc *CategoryUseCase) pushUpdate(ctx context.Context, id string) {
	token, ok := uc.pushToken()
	if !ok {
		return
	}
	cat, found := uc.Get(id)
	if !found {
		return
	}
	log := logger.Log(ctx).With(zap.String("method", "CategoryUseCase.pushUpdate"), zap.String("category_id", id))

	rctx, cancel := context.WithTimeout(ctx, uc.opts.timeout)
	saved, err := uc.remote.UpdateCategory(rctx, token, cat)
	cancel()
	if err != nil {
		log.Warn(ctx, logPushFailed, zap.Error(err))
		return
	}

	err = uc.lib.Update(ctx, func(m *Mutation) error {
		next, marked := services.MarkCategoriesSynced(m.Categories, []services.Ack{{
			ID: id, LocalVersion: cat.LocalVersion, ServerVersion: saved.ServerVersion,
		}})
		if marked > 0 {
			m.SetCategories(next)
		}
		return nil
	})
	if err != nil {
		log.Warn(ctx, logPushFailed, zap.Error(err))
	}
}

func (uc *CategoryUseCase) pushDelete(ctx context.Context, id string) {
	token, ok := uc.pushToken()
	if !ok {
		return
	}

	rctx, cancel := context.WithTimeout(ctx, uc.opts.timeout)
	defer cancel()
	if err := uc.remote.DeleteCategory(rctx, token, id); err != nil {
		logger.Log(ctx).Warn(ctx, logRemoteDelFailed,
			zap.String("method", "CategoryUseCase.pushDelete"), zap.String("category_id", id), zap.Error(err))
	}
}
