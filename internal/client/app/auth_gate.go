package app

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/ports/remote"
	"notasapp/pkg/logger"
)

const (
	logLoginSucceeded = "user logged in"
	logLoginFailed    = "login failed"
	logRegistered     = "user registered"
	logLoggedOut      = "user logged out"
)

// AuthGate хранит токен пользователя и сообщает, аутентифицирован ли клиент.
type AuthGate struct {
	repo   *Repository
	remote remote.Remote

	mu    sync.RWMutex
	token string
}

// NewAuthGate создает новый экземпляр AuthGate.
func NewAuthGate(repo *Repository, rem remote.Remote) *AuthGate {
	return &AuthGate{repo: repo, remote: rem}
}

// Load читает сохраненный токен.
func (g *AuthGate) Load(ctx context.Context) error {
	token, err := g.repo.LoadToken(ctx)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
	return nil
}

// Token возвращает текущий токен.
func (g *AuthGate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

// IsAuthenticated сообщает, есть ли токен.
func (g *AuthGate) IsAuthenticated() bool {
	return g.Token() != ""
}

// Login получает токен по email и паролю.
func (g *AuthGate) Login(ctx context.Context, email, password string) (entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "AuthGate.Login"))

	res, err := g.remote.Login(ctx, email, password)
	if err != nil {
		log.Warn(ctx, logLoginFailed, zap.Error(err))
		return entities.User{}, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	if err := g.store(ctx, res.Token); err != nil {
		return entities.User{}, err
	}

	log.Info(ctx, logLoginSucceeded, zap.String("user_id", res.User.ID))
	return res.User, nil
}

// Register создает пользователя и сохраняет его токен.
func (g *AuthGate) Register(ctx context.Context, name, email, password string) (entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "AuthGate.Register"))

	res, err := g.remote.Register(ctx, name, email, password)
	if err != nil {
		log.Warn(ctx, logLoginFailed, zap.Error(err))
		return entities.User{}, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	if err := g.store(ctx, res.Token); err != nil {
		return entities.User{}, err
	}

	log.Info(ctx, logRegistered, zap.String("user_id", res.User.ID))
	return res.User, nil
}

// Logout удаляет токен.
func (g *AuthGate) Logout(ctx context.Context) error {
	if err := g.repo.ClearToken(ctx); err != nil {
		return err
	}
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()

	logger.Log(ctx).Info(ctx, logLoggedOut)
	return nil
}

// Profile запрашивает профиль текущего пользователя.
func (g *AuthGate) Profile(ctx context.Context) (entities.User, error) {
	token := g.Token()
	if token == "" {
		return entities.User{}, ErrNotAuthenticated
	}
	user, err := g.remote.Me(ctx, token)
	if err != nil {
		return entities.User{}, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	return user, nil
}

func (g *AuthGate) store(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token in response", ErrAuthFailed)
	}
	if err := g.repo.SaveToken(ctx, token); err != nil {
		return err
	}
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
	return nil
}
