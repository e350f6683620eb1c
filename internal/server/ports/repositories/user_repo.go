// Package repositories описывает хранилища сервера.
package repositories

import (
	"context"

	"notasapp/internal/server/domain/entities"
)

// UserRepository определяет операции с пользователями.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	TouchLastLogin(ctx context.Context, id string) error
}
