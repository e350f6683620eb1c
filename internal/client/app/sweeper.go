package app

import (
	"context"
	"time"

	"notasapp/internal/client/domain/services"
)

// Sweeper применяет правила истечения сроков через NoteUseCase.
type Sweeper struct {
	notes *NoteUseCase
}

// NewSweeper создает новый экземпляр Sweeper.
func NewSweeper(notes *NoteUseCase) *Sweeper {
	return &Sweeper{notes: notes}
}

// Run выполняет один проход на момент now. Коллекция сохраняется,
// только если хотя бы одна заметка изменилась.
func (s *Sweeper) Run(ctx context.Context, now time.Time) (services.SweepResult, error) {
	return s.notes.ApplySweep(ctx, now)
}
