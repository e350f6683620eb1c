package services

import (
	"time"

	"notasapp/internal/client/domain/entities"
)

// Сроки хранения.
const (
	TrashTTL   = 30 * 24 * time.Hour
	ArchiveTTL = 30 * 24 * time.Hour
)

// SweepResult описывает изменения одного прохода очистки.
type SweepResult struct {
	Trashed []string
	Removed []string
}

// Changed сообщает, изменил ли проход коллекцию.
func (r SweepResult) Changed() bool {
	return len(r.Trashed) > 0 || len(r.Removed) > 0
}

// Sweep применяет правила истечения сроков. К заметке применяется не более
// одного правила за проход, в порядке: быстрая заметка, корзина, архив.
func Sweep(notes []entities.Note, now time.Time) ([]entities.Note, bool) {
	next, res := SweepDetailed(notes, now)
	return next, res.Changed()
}

// SweepDetailed - Sweep с перечнем затронутых id.
func SweepDetailed(notes []entities.Note, now time.Time) ([]entities.Note, SweepResult) {
	var res SweepResult
	next := make([]entities.Note, 0, len(notes))

	for _, n := range notes {
		switch {
		case n.IsQuickNote && !n.IsInTrash && now.After(n.CreatedAt.Add(entities.QuickNoteTTL)):
			c := n.Clone()
			trash(&c, now)
			touch(&c, now)
			next = append(next, c)
			res.Trashed = append(res.Trashed, n.ID)
		case n.IsInTrash && n.DeletedAt != nil && now.After(n.DeletedAt.Add(TrashTTL)):
			res.Removed = append(res.Removed, n.ID)
		case n.IsArchived && !n.IsInTrash && now.After(n.UpdatedAt.Add(ArchiveTTL)):
			c := n.Clone()
			trash(&c, now)
			touch(&c, now)
			next = append(next, c)
			res.Trashed = append(res.Trashed, n.ID)
		default:
			next = append(next, n)
		}
	}

	if !res.Changed() {
		return notes, res
	}
	return next, res
}
