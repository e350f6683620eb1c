// Package remote описывает порт удаленного API заметок.
package remote

import (
	"context"
	"fmt"

	"notasapp/internal/client/domain/entities"
)

// APIError - ответ удаленного API со статусом ошибки.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote api: status %d: %s", e.Status, e.Message)
}

// AuthResult - ответ login и register.
type AuthResult struct {
	Token string        `json:"token"`
	User  entities.User `json:"user"`
}

// Remote - REST API заметок, категорий и пользователей.
// Пустой token допустим только для Health, Login и Register.
type Remote interface {
	Health(ctx context.Context) error

	Login(ctx context.Context, email, password string) (AuthResult, error)
	Register(ctx context.Context, name, email, password string) (AuthResult, error)
	Me(ctx context.Context, token string) (entities.User, error)

	ListNotes(ctx context.Context, token string) ([]entities.Note, error)
	CreateNote(ctx context.Context, token string, note entities.Note) (entities.Note, error)
	UpdateNote(ctx context.Context, token string, note entities.Note) (entities.Note, error)
	DeleteNote(ctx context.Context, token, id string) error
	SyncNotes(ctx context.Context, token string, notes []entities.Note) ([]entities.Note, error)

	ListCategories(ctx context.Context, token string) ([]entities.Category, error)
	CreateCategory(ctx context.Context, token string, cat entities.Category) (entities.Category, error)
	UpdateCategory(ctx context.Context, token string, cat entities.Category) (entities.Category, error)
	DeleteCategory(ctx context.Context, token, id string) error
	SyncCategories(ctx context.Context, token string, cats []entities.Category) ([]entities.Category, error)
}
