// Package api описывает сценарии сервера, используемые HTTP-адаптером.
package api

import (
	"context"
	"encoding/json"

	"notasapp/internal/server/domain/entities"
)

// AuthResult - ответ регистрации и входа.
type AuthResult struct {
	Token string        `json:"token"`
	User  entities.User `json:"user"`
}

// AuthService регистрирует пользователей и проверяет токены.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Profile(ctx context.Context, userID string) (entities.User, error)
	Authenticate(ctx context.Context, token string) (string, error)
}

// RecordService управляет документами одной коллекции пользователя.
type RecordService interface {
	List(ctx context.Context, userID string) ([]json.RawMessage, error)
	Create(ctx context.Context, userID string, doc json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, userID, id string, doc json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, userID, id string) error
	Sync(ctx context.Context, userID string, docs []json.RawMessage) ([]json.RawMessage, error)
}
