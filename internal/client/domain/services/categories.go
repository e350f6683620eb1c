package services

import (
	"errors"
	"strings"
	"time"

	"notasapp/internal/client/domain/entities"
)

// Ошибки категорий.
var (
	ErrEmptyCategoryName = errors.New("category name is empty")
	ErrDefaultCategory   = errors.New("default category cannot be deleted")
)

// AddCategory создает пользовательскую категорию в конце коллекции.
func AddCategory(cats []entities.Category, name, color, id string, now time.Time) ([]entities.Category, entities.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return cats, entities.Category{}, ErrEmptyCategoryName
	}

	c := entities.Category{
		ID:           id,
		Name:         name,
		Color:        color,
		Icon:         entities.DefaultCategoryIcon,
		SyncStatus:   entities.SyncPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		LocalVersion: 1,
	}

	next := make([]entities.Category, 0, len(cats)+1)
	next = append(next, cats...)
	next = append(next, c)
	return next, c, nil
}

// UpdateCategory применяет patch к категории id. Неизвестный id - no-op.
func UpdateCategory(cats []entities.Category, id string, patch entities.CategoryPatch, now time.Time) ([]entities.Category, bool, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return cats, false, ErrEmptyCategoryName
	}

	for i := range cats {
		if cats[i].ID != id {
			continue
		}
		next := make([]entities.Category, len(cats))
		copy(next, cats)
		c := cats[i]
		if patch.Name != nil {
			c.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Color != nil {
			c.Color = *patch.Color
		}
		if patch.Icon != nil {
			c.Icon = *patch.Icon
		}
		c.UpdatedAt = now
		c.SyncStatus = entities.SyncPending
		c.LocalVersion++
		next[i] = c
		return next, true, nil
	}
	return cats, false, nil
}

// DeleteCategory удаляет категорию и убирает ссылку на нее из заметок.
// Затронутые заметки становятся pending. Возвращает id затронутых заметок.
func DeleteCategory(cats []entities.Category, notes []entities.Note, id string, now time.Time) ([]entities.Category, []entities.Note, []string, error) {
	idx := -1
	for i := range cats {
		if cats[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return cats, notes, nil, nil
	}
	if cats[idx].IsDefault {
		return cats, notes, nil, ErrDefaultCategory
	}

	nextCats := make([]entities.Category, 0, len(cats)-1)
	nextCats = append(nextCats, cats[:idx]...)
	nextCats = append(nextCats, cats[idx+1:]...)

	var touched []string
	nextNotes := make([]entities.Note, len(notes))
	for i, n := range notes {
		nextNotes[i] = n
		if !n.HasCategory(id) {
			continue
		}
		c := n.Clone()
		c.Categories = without(c.Categories, id)
		touch(&c, now)
		nextNotes[i] = c
		touched = append(touched, n.ID)
	}
	if len(touched) == 0 {
		nextNotes = notes
	}
	return nextCats, nextNotes, touched, nil
}

// CountPendingCategories считает категории в статусе pending.
func CountPendingCategories(cats []entities.Category) int {
	count := 0
	for _, c := range cats {
		if c.SyncStatus == entities.SyncPending {
			count++
		}
	}
	return count
}

// PendingCategories возвращает категории в статусе pending.
func PendingCategories(cats []entities.Category) []entities.Category {
	var out []entities.Category
	for _, c := range cats {
		if c.SyncStatus == entities.SyncPending {
			out = append(out, c)
		}
	}
	return out
}

// FindCategory ищет категорию по id.
func FindCategory(cats []entities.Category, id string) (entities.Category, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return entities.Category{}, false
}

// MarkCategoriesSynced помечает подтвержденные категории как synced.
func MarkCategoriesSynced(cats []entities.Category, acks []Ack) ([]entities.Category, int) {
	if len(acks) == 0 {
		return cats, 0
	}
	byID := make(map[string]Ack, len(acks))
	for _, a := range acks {
		byID[a.ID] = a
	}

	next := make([]entities.Category, len(cats))
	marked := 0
	for i, c := range cats {
		next[i] = c
		a, ok := byID[c.ID]
		if !ok || c.LocalVersion != a.LocalVersion {
			continue
		}
		next[i].SyncStatus = entities.SyncSynced
		next[i].ServerVersion = a.ServerVersion
		marked++
	}
	return next, marked
}

// ReplaceCategoryID заменяет локальный id категории на серверный
// и переписывает ссылки в заметках. Переписанные заметки становятся pending,
// их id возвращаются в touched.
func ReplaceCategoryID(cats []entities.Category, notes []entities.Note, oldID, newID string, now time.Time) ([]entities.Category, []entities.Note, []string, bool) {
	if oldID == newID {
		return cats, notes, nil, false
	}
	idx := -1
	for i, c := range cats {
		if c.ID == newID {
			return cats, notes, nil, false
		}
		if c.ID == oldID {
			idx = i
		}
	}
	if idx < 0 {
		return cats, notes, nil, false
	}

	nextCats := make([]entities.Category, len(cats))
	copy(nextCats, cats)
	nextCats[idx].ID = newID

	var touched []string
	nextNotes := make([]entities.Note, len(notes))
	for i, n := range notes {
		nextNotes[i] = n
		if !n.HasCategory(oldID) {
			continue
		}
		c := n.Clone()
		for j := range c.Categories {
			if c.Categories[j] == oldID {
				c.Categories[j] = newID
			}
		}
		touch(&c, now)
		nextNotes[i] = c
		touched = append(touched, c.ID)
	}
	return nextCats, nextNotes, touched, true
}

func without(in []string, v string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
