package app

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"notasapp/internal/server/domain/entities"
	"notasapp/internal/server/ports/api"
	"notasapp/internal/server/ports/repositories"
	"notasapp/internal/server/ports/services"
	"notasapp/pkg/logger"
)

const (
	logUserRegistered = "user registered"
	logUserLoggedIn   = "user logged in"
	logLoginRejected  = "login rejected"

	errCreateUser    = "failed to create user"
	errFindUser      = "failed to find user"
	errHashPassword  = "failed to hash password"
	errVerifyPass    = "failed to verify password"
	errGenerateToken = "failed to generate token"
)

// AuthUseCase реализует регистрацию, вход и проверку токенов.
type AuthUseCase struct {
	users     repositories.UserRepository
	passwords services.PasswordService
	tokens    services.TokenService
}

// NewAuthUseCase создает новый экземпляр AuthUseCase.
func NewAuthUseCase(users repositories.UserRepository, passwords services.PasswordService, tokens services.TokenService) *AuthUseCase {
	return &AuthUseCase{users: users, passwords: passwords, tokens: tokens}
}

var _ api.AuthService = (*AuthUseCase)(nil)

// Register создает пользователя и выдает ему токен.
func (uc *AuthUseCase) Register(ctx context.Context, name, email, password string) (api.AuthResult, error) {
	log := logger.Log(ctx).With(zap.String("method", "AuthUseCase.Register"))

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return api.AuthResult{}, entities.ErrEmptyName
	}
	if err := validateEmail(email); err != nil {
		return api.AuthResult{}, err
	}
	if len(password) < entities.MinPasswordLength {
		return api.AuthResult{}, entities.ErrPasswordTooShort
	}

	hash, err := uc.passwords.Hash(ctx, password)
	if err != nil {
		return api.AuthResult{}, fmt.Errorf("%s: %w", errHashPassword, err)
	}

	user, err := uc.users.Create(ctx, &entities.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, entities.ErrEmailAlreadyExists) {
			return api.AuthResult{}, err
		}
		return api.AuthResult{}, fmt.Errorf("%s: %w", errCreateUser, err)
	}

	res, err := uc.issue(ctx, user)
	if err != nil {
		return api.AuthResult{}, err
	}
	log.Info(ctx, logUserRegistered, zap.String("user_id", user.ID))
	return res, nil
}

// Login проверяет пароль и выдает токен. Неизвестный email и неверный
// пароль неразличимы для клиента.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (api.AuthResult, error) {
	log := logger.Log(ctx).With(zap.String("method", "AuthUseCase.Login"))

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return api.AuthResult{}, entities.ErrInvalidCredentials
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, logLoginRejected)
			return api.AuthResult{}, entities.ErrInvalidCredentials
		}
		return api.AuthResult{}, fmt.Errorf("%s: %w", errFindUser, err)
	}

	ok, err := uc.passwords.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return api.AuthResult{}, fmt.Errorf("%s: %w", errVerifyPass, err)
	}
	if !ok {
		log.Debug(ctx, logLoginRejected, zap.String("user_id", user.ID))
		return api.AuthResult{}, entities.ErrInvalidCredentials
	}

	if err := uc.users.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn(ctx, "failed to update last login", zap.Error(err))
	}

	res, err := uc.issue(ctx, user)
	if err != nil {
		return api.AuthResult{}, err
	}
	log.Info(ctx, logUserLoggedIn, zap.String("user_id", user.ID))
	return res, nil
}

// Profile возвращает пользователя по id.
func (uc *AuthUseCase) Profile(ctx context.Context, userID string) (entities.User, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return entities.User{}, err
		}
		return entities.User{}, fmt.Errorf("%s: %w", errFindUser, err)
	}
	return *user, nil
}

// Authenticate возвращает id пользователя по токену.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	userID, err := uc.tokens.Validate(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return userID, nil
}

func (uc *AuthUseCase) issue(ctx context.Context, user *entities.User) (api.AuthResult, error) {
	token, _, err := uc.tokens.Generate(ctx, user.ID)
	if err != nil {
		return api.AuthResult{}, fmt.Errorf("%s: %w", errGenerateToken, err)
	}
	return api.AuthResult{Token: token, User: *user}, nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return entities.ErrInvalidEmail
	}
	return nil
}
