package postgres

import (
	"notasapp/internal/server/domain/entities"
	"notasapp/internal/server/ports/repositories"
)

// RepositoryFactory создает все репозитории сервера поверх одного пула.
type RepositoryFactory struct {
	users      repositories.UserRepository
	notes      repositories.RecordRepository
	categories repositories.RecordRepository
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) (*RepositoryFactory, error) {
	notes, err := NewRecordRepository(pool, entities.Notes)
	if err != nil {
		return nil, err
	}
	categories, err := NewRecordRepository(pool, entities.Categories)
	if err != nil {
		return nil, err
	}
	return &RepositoryFactory{
		users:      NewUserRepository(pool),
		notes:      notes,
		categories: categories,
	}, nil
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.users
}

// NoteRepository возвращает репозиторий заметок.
func (f *RepositoryFactory) NoteRepository() repositories.RecordRepository {
	return f.notes
}

// CategoryRepository возвращает репозиторий категорий.
func (f *RepositoryFactory) CategoryRepository() repositories.RecordRepository {
	return f.categories
}
