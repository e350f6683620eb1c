package services

import (
	"context"
	"errors"
	"time"
)

// Ошибки токенов.
var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")
	ErrGeneratingToken = errors.New("failed to generate token")
)

// TokenService выпускает и проверяет токены доступа.
type TokenService interface {
	Generate(ctx context.Context, userID string) (string, time.Time, error)

	Validate(ctx context.Context, token string) (string, error)
}
