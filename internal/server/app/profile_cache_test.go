package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cacheadapter "notasapp/internal/server/adapters/cache"
	"notasapp/internal/server/app"
	"notasapp/internal/server/domain/entities"
)

func TestCachedAuthServiceProfile(t *testing.T) {
	ctx := context.Background()
	users := new(mockUserRepository)
	inner := app.NewAuthUseCase(users, new(mockPasswordService), new(mockTokenService))

	stored := &entities.User{ID: "u1", Name: "Ana", Email: "ana@example.com", PasswordHash: "hash"}
	users.On("FindByID", mock.Anything, "u1").Return(stored, nil).Once()

	svc := app.NewCachedAuthService(inner, cacheadapter.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	first, err := svc.Profile(ctx, "u1")
	require.NoError(t, err)
	second, err := svc.Profile(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, "Ana", first.Name)
	assert.Equal(t, first.Email, second.Email)
	assert.Empty(t, second.PasswordHash)
	users.AssertExpectations(t)
}

func TestCachedAuthServiceProfileNotFound(t *testing.T) {
	users := new(mockUserRepository)
	inner := app.NewAuthUseCase(users, new(mockPasswordService), new(mockTokenService))
	users.On("FindByID", mock.Anything, "ghost").Return(nil, entities.ErrUserNotFound).Twice()

	svc := app.NewCachedAuthService(inner, cacheadapter.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	for i := 0; i < 2; i++ {
		_, err := svc.Profile(context.Background(), "ghost")
		assert.True(t, errors.Is(err, entities.ErrUserNotFound))
	}
	users.AssertExpectations(t)
}

func TestCachedAuthServiceLoginEvicts(t *testing.T) {
	ctx := context.Background()
	users := new(mockUserRepository)
	passwords := new(mockPasswordService)
	tokens := new(mockTokenService)
	inner := app.NewAuthUseCase(users, passwords, tokens)

	user := &entities.User{ID: "u1", Name: "Ana", Email: "ana@example.com", PasswordHash: "hash"}
	users.On("FindByID", mock.Anything, "u1").Return(user, nil).Twice()
	users.On("FindByEmail", mock.Anything, "ana@example.com").Return(user, nil)
	users.On("TouchLastLogin", mock.Anything, "u1").Return(nil)
	passwords.On("Verify", mock.Anything, "secret1", "hash").Return(true, nil)
	tokens.On("Generate", mock.Anything, "u1").Return("tok", time.Now().Add(time.Hour), nil)

	svc := app.NewCachedAuthService(inner, cacheadapter.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	_, err := svc.Profile(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.Profile(ctx, "u1")
	require.NoError(t, err)

	users.AssertExpectations(t)
}
