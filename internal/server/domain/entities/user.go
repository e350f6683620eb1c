// Package entities содержит сущности сервера заметок.
package entities

import (
	"errors"
	"time"
)

// MinPasswordLength - минимальная длина пароля.
const MinPasswordLength = 6

// Ошибки домена пользователя.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrPasswordTooShort   = errors.New("password must contain at least 6 characters")
)

// User - зарегистрированный пользователь.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin"`
}
