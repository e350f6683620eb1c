// Package services содержит чистые правила жизненного цикла заметок и категорий.
// Функции пакета не изменяют входные коллекции и возвращают новые.
package services

import (
	"errors"
	"strings"
	"time"

	"notasapp/internal/client/domain/entities"
)

// Ошибки валидации заметок.
var (
	ErrEmptyNote = errors.New("note title and content are both empty")
)

// Ack - подтверждение удаленного хранилища для одной записи.
type Ack struct {
	ID            string
	LocalVersion  int64
	ServerVersion int64
}

// AddNote создает заметку и помещает ее в начало коллекции.
func AddNote(notes []entities.Note, p entities.NewNoteParams, id string, now time.Time) ([]entities.Note, entities.Note, error) {
	if strings.TrimSpace(p.Title) == "" && strings.TrimSpace(p.Content) == "" {
		return notes, entities.Note{}, ErrEmptyNote
	}

	note := entities.Note{
		ID:            id,
		Title:         p.Title,
		Content:       p.Content,
		Categories:    nonNil(p.Categories),
		Tags:          nonNil(p.Tags),
		IsFavorite:    p.IsFavorite,
		IsTask:        p.IsTask,
		IsQuickNote:   p.IsQuickNote,
		CreatedAt:     now,
		UpdatedAt:     now,
		SyncStatus:    entities.SyncPending,
		LocalVersion:  1,
		SchemaVersion: entities.CurrentSchemaVersion,
	}
	if p.IsTask {
		note.TaskItems = append([]entities.TaskItem(nil), p.TaskItems...)
	}
	if p.IsQuickNote {
		expires := now.Add(entities.QuickNoteTTL)
		note.ExpiresAt = &expires
	}

	next := make([]entities.Note, 0, len(notes)+1)
	next = append(next, note)
	next = append(next, notes...)
	return next, note.Clone(), nil
}

// UpdateNote заменяет заметку с тем же id. id, createdAt и expiresAt
// берутся из сохраненной заметки. Неизвестный id - no-op.
func UpdateNote(notes []entities.Note, updated entities.Note, now time.Time) ([]entities.Note, bool) {
	return apply(notes, updated.ID, now, func(n *entities.Note) {
		stored := *n
		*n = updated.Clone()
		n.ID = stored.ID
		n.CreatedAt = stored.CreatedAt
		n.ExpiresAt = stored.ExpiresAt
		n.LocalVersion = stored.LocalVersion
		n.ServerVersion = stored.ServerVersion
		n.SchemaVersion = entities.CurrentSchemaVersion
		if n.IsInTrash && n.DeletedAt == nil {
			if stored.DeletedAt != nil {
				n.DeletedAt = stored.DeletedAt
			} else {
				t := now
				n.DeletedAt = &t
			}
		}
		if !n.IsInTrash {
			n.DeletedAt = nil
		}
		if !n.IsTask {
			n.TaskItems = nil
		}
	})
}

// ToggleFavorite переключает флаг избранного.
func ToggleFavorite(notes []entities.Note, id string, now time.Time) ([]entities.Note, bool) {
	return apply(notes, id, now, func(n *entities.Note) {
		n.IsFavorite = !n.IsFavorite
	})
}

// ToggleArchive переключает флаг архива.
func ToggleArchive(notes []entities.Note, id string, now time.Time) ([]entities.Note, bool) {
	return apply(notes, id, now, func(n *entities.Note) {
		n.IsArchived = !n.IsArchived
	})
}

// MoveToTrash перемещает заметку в корзину.
func MoveToTrash(notes []entities.Note, id string, now time.Time) ([]entities.Note, bool) {
	return apply(notes, id, now, func(n *entities.Note) {
		trash(n, now)
	})
}

// RestoreFromTrash возвращает заметку из корзины.
func RestoreFromTrash(notes []entities.Note, id string, now time.Time) ([]entities.Note, bool) {
	return apply(notes, id, now, func(n *entities.Note) {
		n.IsInTrash = false
		n.DeletedAt = nil
	})
}

// DeleteNote удаляет заметку безвозвратно.
func DeleteNote(notes []entities.Note, id string) ([]entities.Note, bool) {
	next := make([]entities.Note, 0, len(notes))
	found := false
	for _, n := range notes {
		if n.ID == id {
			found = true
			continue
		}
		next = append(next, n)
	}
	if !found {
		return notes, false
	}
	return next, true
}

// EmptyTrash удаляет все заметки из корзины и возвращает их id.
func EmptyTrash(notes []entities.Note) ([]entities.Note, []string) {
	next := make([]entities.Note, 0, len(notes))
	var removed []string
	for _, n := range notes {
		if n.IsInTrash {
			removed = append(removed, n.ID)
			continue
		}
		next = append(next, n)
	}
	if len(removed) == 0 {
		return notes, nil
	}
	return next, removed
}

// CountPending считает заметки, не подтвержденные удаленным хранилищем.
func CountPending(notes []entities.Note) int {
	count := 0
	for _, n := range notes {
		if n.SyncStatus == entities.SyncPending {
			count++
		}
	}
	return count
}

// PendingNotes возвращает копии заметок в статусе pending.
func PendingNotes(notes []entities.Note) []entities.Note {
	var out []entities.Note
	for _, n := range notes {
		if n.SyncStatus == entities.SyncPending {
			out = append(out, n.Clone())
		}
	}
	return out
}

// FindNote ищет заметку по id.
func FindNote(notes []entities.Note, id string) (entities.Note, bool) {
	for _, n := range notes {
		if n.ID == id {
			return n.Clone(), true
		}
	}
	return entities.Note{}, false
}

// MarkNotesSynced помечает подтвержденные заметки как synced. Заметка,
// измененная после отправки (другой localVersion), остается pending.
func MarkNotesSynced(notes []entities.Note, acks []Ack) ([]entities.Note, int) {
	if len(acks) == 0 {
		return notes, 0
	}
	byID := make(map[string]Ack, len(acks))
	for _, a := range acks {
		byID[a.ID] = a
	}

	next := make([]entities.Note, len(notes))
	marked := 0
	for i, n := range notes {
		next[i] = n
		a, ok := byID[n.ID]
		if !ok || n.LocalVersion != a.LocalVersion {
			continue
		}
		next[i] = n.Clone()
		next[i].SyncStatus = entities.SyncSynced
		next[i].ServerVersion = a.ServerVersion
		marked++
	}
	return next, marked
}

// ReplaceNoteID заменяет локальный id на id, назначенный сервером.
func ReplaceNoteID(notes []entities.Note, oldID, newID string) ([]entities.Note, bool) {
	if oldID == newID {
		return notes, false
	}
	idx := -1
	for i, n := range notes {
		if n.ID == newID {
			return notes, false
		}
		if n.ID == oldID {
			idx = i
		}
	}
	if idx < 0 {
		return notes, false
	}
	next := make([]entities.Note, len(notes))
	copy(next, notes)
	next[idx] = notes[idx].Clone()
	next[idx].ID = newID
	return next, true
}

// apply копирует коллекцию, изменяет заметку id через fn и отмечает изменение.
func apply(notes []entities.Note, id string, now time.Time, fn func(*entities.Note)) ([]entities.Note, bool) {
	for i := range notes {
		if notes[i].ID != id {
			continue
		}
		next := make([]entities.Note, len(notes))
		copy(next, notes)
		n := notes[i].Clone()
		fn(&n)
		touch(&n, now)
		next[i] = n
		return next, true
	}
	return notes, false
}

func touch(n *entities.Note, now time.Time) {
	n.UpdatedAt = now
	n.SyncStatus = entities.SyncPending
	n.LocalVersion++
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.Categories == nil {
		n.Categories = []string{}
	}
}

func trash(n *entities.Note, now time.Time) {
	t := now
	n.IsInTrash = true
	n.DeletedAt = &t
}

func nonNil(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
