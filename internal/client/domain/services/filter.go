package services

import (
	"sort"
	"strings"

	"notasapp/internal/client/domain/entities"
)

// Встроенные фильтры коллекции.
const (
	FilterAll        = "all"
	FilterFavorites  = "favorites"
	FilterTasks      = "tasks"
	FilterIdeas      = "ideas"
	FilterQuickNotes = "quick-notes"
	FilterArchive    = "archive"
	FilterTrash      = "trash"
)

// IdeaTag - тег, по которому заметка попадает в фильтр идей.
const IdeaTag = "ideia"

// aliases сопоставляет id засеянных категорий встроенным фильтрам.
var aliases = map[string]string{
	"":                  FilterAll,
	"minhas-notas":      FilterAll,
	"favoritos":         FilterFavorites,
	"tarefas":           FilterTasks,
	"ideias":            FilterIdeas,
	"anotacoes-rapidas": FilterQuickNotes,
	"arquivadas":        FilterArchive,
	"lixeira":           FilterTrash,
}

// NormalizeFilter приводит алиас к имени встроенного фильтра.
// Значение, не являющееся встроенным фильтром, возвращается как есть.
func NormalizeFilter(category string) string {
	if f, ok := aliases[category]; ok {
		return f
	}
	return category
}

// Filter возвращает заметки категории, подходящие под поисковый запрос,
// отсортированные по updatedAt по убыванию.
func Filter(notes []entities.Note, category, query string) []entities.Note {
	match := bucket(NormalizeFilter(category))
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]entities.Note, 0, len(notes))
	for i := range notes {
		n := &notes[i]
		if !match(n) {
			continue
		}
		if q != "" && !matchesQuery(n, q) {
			continue
		}
		out = append(out, n.Clone())
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func bucket(filter string) func(*entities.Note) bool {
	visible := func(n *entities.Note) bool { return !n.IsArchived && !n.IsInTrash }

	switch filter {
	case FilterFavorites:
		return func(n *entities.Note) bool { return n.IsFavorite && !n.IsInTrash }
	case FilterTasks:
		return func(n *entities.Note) bool { return n.IsTask && visible(n) }
	case FilterIdeas:
		return func(n *entities.Note) bool { return n.HasTag(IdeaTag) && visible(n) }
	case FilterQuickNotes:
		return func(n *entities.Note) bool { return n.IsQuickNote && visible(n) }
	case FilterArchive:
		return func(n *entities.Note) bool { return n.IsArchived && !n.IsInTrash }
	case FilterTrash:
		return func(n *entities.Note) bool { return n.IsInTrash }
	case FilterAll:
		return visible
	default:
		return func(n *entities.Note) bool { return n.HasCategory(filter) && visible(n) }
	}
}

func matchesQuery(n *entities.Note, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
