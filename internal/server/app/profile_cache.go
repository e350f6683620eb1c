package app

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"notasapp/internal/server/domain/entities"
	"notasapp/internal/server/ports/api"
	"notasapp/internal/server/ports/cache"
	"notasapp/pkg/logger"
)

// ProfileCacheKeyPrefix - префикс ключей кэша профилей.
const ProfileCacheKeyPrefix = "profile:"

const (
	logProfileCacheHit  = "user profile found in cache"
	logProfileCacheMiss = "failed to cache user profile"
	logProfileEvict     = "failed to evict cached profile"
)

// CachedAuthService кэширует профили пользователей поверх AuthService.
// Вход пользователя меняет lastLogin, поэтому сбрасывает его профиль.
type CachedAuthService struct {
	api.AuthService
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedAuthService создает обертку с временем жизни записей ttl.
func NewCachedAuthService(next api.AuthService, c cache.Cache, ttl time.Duration) *CachedAuthService {
	return &CachedAuthService{AuthService: next, cache: c, ttl: ttl}
}

var _ api.AuthService = (*CachedAuthService)(nil)

// Profile возвращает профиль из кэша или из следующего сервиса.
// Ошибки кэша не прерывают запрос.
func (s *CachedAuthService) Profile(ctx context.Context, userID string) (entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", "CachedAuthService.Profile"))
	key := ProfileCacheKeyPrefix + userID

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var user entities.User
		if json.Unmarshal([]byte(cached), &user) == nil {
			log.Debug(ctx, logProfileCacheHit)
			return user, nil
		}
	}

	user, err := s.AuthService.Profile(ctx, userID)
	if err != nil {
		return entities.User{}, err
	}

	if data, err := json.Marshal(user); err == nil {
		if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
			log.Warn(ctx, logProfileCacheMiss, zap.Error(err))
		}
	}
	return user, nil
}

// Login выполняет вход и сбрасывает кэшированный профиль.
func (s *CachedAuthService) Login(ctx context.Context, email, password string) (api.AuthResult, error) {
	res, err := s.AuthService.Login(ctx, email, password)
	if err != nil {
		return res, err
	}
	if err := s.cache.Delete(ctx, ProfileCacheKeyPrefix+res.User.ID); err != nil {
		logger.Log(ctx).Warn(ctx, logProfileEvict, zap.Error(err))
	}
	return res, nil
}
