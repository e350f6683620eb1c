// Package entities описывает сущности локального клиента заметок.
package entities

import (
	"time"
)

// SyncStatus - состояние синхронизации записи с удаленным хранилищем.
type SyncStatus string

// Возможные значения SyncStatus.
const (
	SyncSynced  SyncStatus = "synced"
	SyncPending SyncStatus = "pending"
	SyncError   SyncStatus = "error"
)

// CurrentSchemaVersion - версия схемы заметки после миграции при загрузке.
const CurrentSchemaVersion = 2

// QuickNoteTTL - время жизни быстрой заметки от момента создания.
const QuickNoteTTL = 5 * 24 * time.Hour

// TaskItem - пункт списка задач заметки.
type TaskItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Note представляет заметку пользователя.
type Note struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Categories    []string   `json:"categories"`
	Tags          []string   `json:"tags"`
	IsFavorite    bool       `json:"isFavorite"`
	IsArchived    bool       `json:"isArchived"`
	IsTask        bool       `json:"isTask"`
	IsQuickNote   bool       `json:"isQuickNote"`
	IsInTrash     bool       `json:"isInTrash"`
	DeletedAt     *time.Time `json:"deletedAt"`
	TaskItems     []TaskItem `json:"taskItems,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	SyncStatus    SyncStatus `json:"syncStatus"`
	LocalVersion  int64      `json:"localVersion"`
	ServerVersion int64      `json:"serverVersion"`
	SchemaVersion int        `json:"schemaVersion"`
}

// NewNoteParams - входные данные для создания заметки.
type NewNoteParams struct {
	Title       string
	Content     string
	Categories  []string
	Tags        []string
	IsTask      bool
	TaskItems   []TaskItem
	IsFavorite  bool
	IsQuickNote bool
}

// HasCategory сообщает, входит ли заметка в категорию.
func (n *Note) HasCategory(id string) bool {
	for _, c := range n.Categories {
		if c == id {
			return true
		}
	}
	return false
}

// HasTag сообщает, есть ли у заметки тег.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone возвращает глубокую копию заметки.
func (n Note) Clone() Note {
	out := n
	out.Categories = cloneStrings(n.Categories)
	out.Tags = cloneStrings(n.Tags)
	out.TaskItems = nil
	if len(n.TaskItems) > 0 {
		out.TaskItems = make([]TaskItem, len(n.TaskItems))
		copy(out.TaskItems, n.TaskItems)
	}
	out.DeletedAt = cloneTime(n.DeletedAt)
	out.ExpiresAt = cloneTime(n.ExpiresAt)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
