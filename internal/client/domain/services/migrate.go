package services

import (
	"encoding/json"
	"fmt"

	"notasapp/internal/client/domain/entities"
)

// legacyNote - заметка в старом формате: одна категория и другие флаги корзины.
type legacyNote struct {
	entities.Note
	CategoryID string `json:"categoryId"`
	Category   string `json:"category"`
	IsTrashed  bool   `json:"isTrashed"`
	IsDeleted  bool   `json:"isDeleted"`
}

// MigrateLegacyNotes декодирует сохраненную коллекцию и приводит каждую
// заметку к текущей версии схемы. migrated=true, если хотя бы одна
// заметка была изменена и коллекцию нужно пересохранить.
func MigrateLegacyNotes(raw []byte) (notes []entities.Note, migrated bool, err error) {
	var legacy []legacyNote
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, false, fmt.Errorf("decode notes: %w", err)
	}

	notes = make([]entities.Note, 0, len(legacy))
	for _, l := range legacy {
		n, changed := upgrade(l)
		if changed {
			migrated = true
		}
		notes = append(notes, n)
	}
	return notes, migrated, nil
}

func upgrade(l legacyNote) (entities.Note, bool) {
	n := l.Note
	if n.SchemaVersion >= entities.CurrentSchemaVersion {
		return normalize(n), false
	}

	if len(n.Categories) == 0 {
		switch {
		case l.CategoryID != "":
			n.Categories = []string{l.CategoryID}
		case l.Category != "":
			n.Categories = []string{l.Category}
		}
	}
	if l.IsTrashed || l.IsDeleted {
		n.IsInTrash = true
	}
	if n.IsQuickNote && n.ExpiresAt == nil {
		expires := n.CreatedAt.Add(entities.QuickNoteTTL)
		n.ExpiresAt = &expires
	}
	if n.SyncStatus == "" {
		n.SyncStatus = entities.SyncPending
	}
	n.SchemaVersion = entities.CurrentSchemaVersion
	return normalize(n), true
}

// normalize восстанавливает инварианты: deletedAt задан тогда и только тогда,
// когда заметка в корзине; списки не nil.
func normalize(n entities.Note) entities.Note {
	if n.IsInTrash && n.DeletedAt == nil {
		t := n.UpdatedAt
		if t.IsZero() {
			t = n.CreatedAt
		}
		n.DeletedAt = &t
	}
	if !n.IsInTrash {
		n.DeletedAt = nil
	}
	if n.Categories == nil {
		n.Categories = []string{}
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}
