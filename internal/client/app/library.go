package app

import (
	"context"
	"sync"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/ports/store"
)

// Mutation - изменяемая копия коллекций внутри Library.Update.
type Mutation struct {
	Notes      []entities.Note
	Categories []entities.Category

	notesDirty bool
	catsDirty  bool
}

// SetNotes заменяет коллекцию заметок.
func (m *Mutation) SetNotes(notes []entities.Note) {
	m.Notes = notes
	m.notesDirty = true
}

// SetCategories заменяет коллекцию категорий.
func (m *Mutation) SetCategories(cats []entities.Category) {
	m.Categories = cats
	m.catsDirty = true
}

// Library владеет текущими снимками заметок и категорий. Снимок
// заменяется целиком и только после успешной записи в хранилище.
type Library struct {
	repo *Repository

	mu    sync.Mutex
	notes []entities.Note
	cats  []entities.Category
}

// NewLibrary создает пустую библиотеку поверх репозитория.
func NewLibrary(repo *Repository) *Library {
	return &Library{repo: repo}
}

// Repository возвращает репозиторий библиотеки.
func (l *Library) Repository() *Repository {
	return l.repo
}

// Load перечитывает обе коллекции из хранилища.
func (l *Library) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refreshLocked(ctx)
}

func (l *Library) refreshLocked(ctx context.Context) error {
	notes, err := l.repo.LoadNotes(ctx)
	if err != nil {
		return err
	}
	cats, err := l.repo.LoadCategories(ctx)
	if err != nil {
		return err
	}
	l.notes, l.cats = notes, cats
	return nil
}

// Notes возвращает текущий снимок заметок. Элементы нельзя изменять.
func (l *Library) Notes() []entities.Note {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.notes
}

// Categories возвращает текущий снимок категорий.
func (l *Library) Categories() []entities.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cats
}

// Update перечитывает хранилище, применяет fn и сохраняет измененные
// коллекции. Ошибка fn или записи оставляет снимок и хранилище прежними.
func (l *Library) Update(ctx context.Context, fn func(m *Mutation) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.refreshLocked(ctx); err != nil {
		return err
	}

	m := &Mutation{Notes: l.notes, Categories: l.cats}
	if err := fn(m); err != nil {
		return err
	}

	return l.commitLocked(ctx, m, nil)
}

// Replace записывает обе коллекции целиком и, если settings не nil, настройки.
// При ошибке хранилище и снимок остаются прежними.
func (l *Library) Replace(ctx context.Context, notes []entities.Note, cats []entities.Category, settings *entities.AppSettings) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := &Mutation{}
	m.SetNotes(notes)
	m.SetCategories(cats)
	return l.commitLocked(ctx, m, settings)
}

// commitLocked сохраняет измененные коллекции одним пакетом и только
// после успешной записи всех ключей обновляет снимок.
func (l *Library) commitLocked(ctx context.Context, m *Mutation, settings *entities.AppSettings) error {
	if m.Notes == nil {
		m.Notes = []entities.Note{}
	}
	if m.Categories == nil {
		m.Categories = []entities.Category{}
	}

	var writes []blobWrite
	if m.notesDirty {
		writes = append(writes, blobWrite{key: store.KeyNotes, value: m.Notes})
	}
	if m.catsDirty {
		writes = append(writes, blobWrite{key: store.KeyCategories, value: m.Categories})
	}
	if settings != nil {
		writes = append(writes, blobWrite{key: store.KeySettings, value: *settings})
	}
	if len(writes) == 0 {
		return nil
	}

	if err := l.repo.saveAll(ctx, writes); err != nil {
		return err
	}
	if m.notesDirty {
		l.notes = m.Notes
	}
	if m.catsDirty {
		l.cats = m.Categories
	}
	return nil
}
