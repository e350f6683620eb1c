package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/domain/services"
	"notasapp/internal/client/ports/remote"
	"notasapp/pkg/logger"
)

const (
	logNoteCreated     = "note created"
	logNoteSwappedID   = "local note id replaced by server id"
	logPushFailed      = "remote push failed, change stays pending"
	logRemoteDelFailed = "remote delete failed"
	logSweepApplied    = "expiry sweep applied"
)

// NoteUseCase применяет операции жизненного цикла к снимку заметок,
// сохраняет результат и, при наличии сети и токена, отправляет его на сервер.
type NoteUseCase struct {
	lib     *Library
	remote  remote.Remote
	session Session
	conn    Connectivity
	opts    options
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(lib *Library, rem remote.Remote, session Session, conn Connectivity, opts ...Option) *NoteUseCase {
	return &NoteUseCase{
		lib:     lib,
		remote:  rem,
		session: session,
		conn:    conn,
		opts:    buildOptions(opts),
	}
}

// List возвращает заметки категории, подходящие под запрос.
func (uc *NoteUseCase) List(category, query string) []entities.Note {
	return services.Filter(uc.lib.Notes(), category, query)
}

// Get возвращает заметку по id.
func (uc *NoteUseCase) Get(id string) (entities.Note, bool) {
	return services.FindNote(uc.lib.Notes(), id)
}

// Add создает заметку. Возвращается заметка после попытки отправки,
// то есть с серверным id, если сервер ее принял.
func (uc *NoteUseCase) Add(ctx context.Context, p entities.NewNoteParams) (entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.Add"))

	var created entities.Note
	err := uc.lib.Update(ctx, func(m *Mutation) error {
		next, note, err := services.AddNote(m.Notes, p, uc.opts.newID(), uc.opts.now())
		if err != nil {
			return err
		}
		m.SetNotes(next)
		created = note
		return nil
	})
	if err != nil {
		return entities.Note{}, err
	}
	log.Debug(ctx, logNoteCreated, zap.String("note_id", created.ID))

	id := uc.pushCreate(ctx, created)
	if n, ok := uc.Get(id); ok {
		return n, nil
	}
	return created, nil
}

// Update заменяет заметку с тем же id. Неизвестный id - no-op (false).
func (uc *NoteUseCase) Update(ctx context.Context, note entities.Note) (bool, error) {
	return uc.mutate(ctx, note.ID, func(notes []entities.Note) ([]entities.Note, bool) {
		return services.UpdateNote(notes, note, uc.opts.now())
	})
}

// ToggleFavorite переключает избранное.
func (uc *NoteUseCase) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	return uc.mutate(ctx, id, func(notes []entities.Note) ([]entities.Note, bool) {
		return services.ToggleFavorite(notes, id, uc.opts.now())
	})
}

// ToggleArchive переключает архив.
func (uc *NoteUseCase) ToggleArchive(ctx context.Context, id string) (bool, error) {
	return uc.mutate(ctx, id, func(notes []entities.Note) ([]entities.Note, bool) {
		return services.ToggleArchive(notes, id, uc.opts.now())
	})
}

// MoveToTrash перемещает заметку в корзину.
func (uc *NoteUseCase) MoveToTrash(ctx context.Context, id string) (bool, error) {
	return uc.mutate(ctx, id, func(notes []entities.Note) ([]entities.Note, bool) {
		return services.MoveToTrash(notes, id, uc.opts.now())
	})
}

// RestoreFromTrash возвращает заметку из корзины.
func (uc *NoteUseCase) RestoreFromTrash(ctx context.Context, id string) (bool, error) {
	return uc.mutate(ctx, id, func(notes []entities.Note) ([]entities.Note, bool) {
		return services.RestoreFromTrash(notes, id, uc.opts.now())
	})
}

// Delete удаляет заметку безвозвратно.
func (uc *NoteUseCase) Delete(ctx context.Context, id string) (bool, error) {
	var found bool
	err := uc.lib.Update(ctx, func(m *Mutation) error {
		var next []entities.Note
		next, found = services.DeleteNote(m.Notes, id)
		if found {
			m.SetNotes(next)
		}
		return nil
	})
	if err != nil || !found {
		return false, err
	}

	uc.pushDelete(ctx, []string{id})
	return true, nil
}

// EmptyTrash удаляет все заметки из корзины и возвращает их число.
func (uc *NoteUseCase) EmptyTrash(ctx context.Context) (int, error) {
	var removed []string
	err := uc.lib.Update(ctx, func(m *Mutation) error {
		var next []entities.Note
		next, removed = services.EmptyTrash(m.Notes)
		if len(removed) > 0 {
			m.SetNotes(next)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	uc.pushDelete(ctx, removed)
	return len(removed), nil
}

// ApplySweep выполняет проход истечения сроков на момент now.
func (uc *NoteUseCase) ApplySweep(ctx context.Context, now time.Time) (services.SweepResult, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.ApplySweep"))

	var res services.SweepResult
	err := uc.lib.Update(ctx, func(m *Mutation) error {
		var next []entities.Note
		next, res = services.SweepDetailed(m.Notes, now)
		if res.Changed() {
			m.SetNotes(next)
		}
		return nil
	})
	if err != nil {
		return services.SweepResult{}, err
	}
	if !res.Changed() {
		return res, nil
	}

	log.Info(ctx, logSweepApplied, zap.Int("trashed", len(res.Trashed)), zap.Int("removed", len(res.Removed)))
	for _, id := range res.Trashed {
		uc.pushUpdate(ctx, id)
	}
	uc.pushDelete(ctx, res.Removed)
	return res, nil
}

func (uc *NoteUseCase) mutate(ctx context.Context, id string, fn func([]entities.Note) ([]entities.Note, bool)) (bool, error) {
	var changed bool
	err := uc.lib.Update(ctx, func(m *Mutation) error {
		var next []entities.Note
		next, changed = fn(m.Notes)
		if changed {
			m.SetNotes(next)
		}
		return nil
	})
	if err != nil || !changed {
		return false, err
	}

	uc.pushUpdate(ctx, id)
	return true, nil
}

// pushToken возвращает токен, если отправка на сервер сейчас возможна.
func (uc *NoteUseCase) pushToken() (string, bool) {
	if uc.remote == nil || uc.session == nil || uc.conn == nil {
		return "", false
	}
	token := uc.session.Token()
	if token == "" || !uc.conn.IsOnline() {
		return "", false
	}
	return token, true
}

// pushCreate отправляет новую заметку и возвращает ее итоговый id.
func (uc *NoteUseCase) pushCreate(ctx context.Context, note entities.Note) string {
	token, ok := uc.pushToken()
	if !ok {
		return note.ID
	}
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.pushCreate"), zap.String("note_id", note.ID))

	rctx, cancel := context.WithTimeout(ctx, uc.opts.timeout)
	saved, err := uc.remote.CreateNote(rctx, token, note)
	cancel()
	if err != nil {
		log.Warn(ctx, logPushFailed, zap.Error(err))
		return note.ID
	}

	id := note.ID
	err = uc.lib.Update(ctx, func(m *Mutation) error {
		notes := m.Notes
		if saved.ID != "" && saved.ID != note.ID {
			if next, swapped := services.ReplaceNoteID(notes, note.ID, saved.ID); swapped {
				notes, id = next, saved.ID
			}
		}
		next, marked := services.MarkNotesSynced(notes, []services.Ack{{
			ID: id, LocalVersion: note.LocalVersion, ServerVersion: saved.ServerVersion,
		}})
		if id != note.ID || marked > 0 {
			m.SetNotes(next)
		}
		return nil
	})
	if err != nil {
		log.Warn(ctx, logPushFailed, zap.Error(err))
		return note.ID
	}
	if id != note.ID {
		log.Debug(ctx, logNoteSwappedID, zap.String("server_id", id))
	}
	return id
}

// pushUpdate отправляет текущее состояние заметки id.
func (uc *NoteUseCase) pushUpdate(ctx context.Context, id string) {
	token, ok := uc.pushToken()
	if !ok {
		return
	}
	note, found := uc.Get(id)
	if !found {
		return
	}
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.pushUpdate"), zap.String("note_id", id))

	rctx, cancel := context.WithTimeout(ctx, uc.opts.timeout)
	saved, err := uc.remote.UpdateNote(rctx, token, note)
	cancel()
	if err != nil {
		log.Warn(ctx, logPushFailed, zap.Error(err))
		return
	}

	err = uc.lib.Update(ctx, func(m *Mutation) error {
		next, marked := services.MarkNotesSynced(m.Notes, []services.Ack{{
			ID: id, LocalVersion: note.LocalVersion, ServerVersion: saved.ServerVersion,
		}})
		if marked > 0 {
			m.SetNotes(next)
		}
		return nil
	})
	if err != nil {
		log.Warn(ctx, logPushFailed, zap.Error(err))
	}
}

// pushDelete удаляет заметки на сервере независимо друг от друга.
func (uc *NoteUseCase) pushDelete(ctx context.Context, ids []string) {
	token, ok := uc.pushToken()
	if !ok {
		return
	}
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.pushDelete"))

	for _, id := range ids {
		rctx, cancel := context.WithTimeout(ctx, uc.opts.timeout)
		err := uc.remote.DeleteNote(rctx, token, id)
		cancel()
		if err != nil {
			log.Warn(ctx, logRemoteDelFailed, zap.String("note_id", id), zap.Error(err))
		}
	}
}
