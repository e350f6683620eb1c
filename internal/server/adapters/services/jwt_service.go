package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	svc "notasapp/internal/server/ports/services"
	"notasapp/pkg/logger"
)

const (
	msgGeneratingToken = "generating access token"
	msgTokenGenerated  = "token generated successfully"
	msgTokenExpired    = "token has expired"
	msgInvalidToken    = "invalid token"
	//nolint:gosec
	errSigningToken = "error signing token"
)

// ErrInvalidAlgorithm возвращается для токена с чужим алгоритмом подписи.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// Claims - содержимое токена доступа.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ServiceJWT выпускает токены HS256.
type ServiceJWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWT создает новый экземпляр сервиса JWT.
func NewJWT(secretKey string, ttl time.Duration) svc.TokenService {
	return &ServiceJWT{secret: []byte(secretKey), ttl: ttl, now: time.Now}
}

// Generate выпускает токен для пользователя.
func (s *ServiceJWT) Generate(ctx context.Context, userID string) (string, time.Time, error) {
	log := logger.Log(ctx).With(zap.String("method", "ServiceJWT.Generate"), zap.String("userID", userID))
	log.Debug(ctx, msgGeneratingToken)

	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("%w: empty secret key", svc.ErrGeneratingToken)
	}
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("%w: empty user id", svc.ErrGeneratingToken)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%w: %w", svc.ErrGeneratingToken, err)
	}

	log.Debug(ctx, msgTokenGenerated, zap.Time("expiresAt", expiresAt))
	return signed, expiresAt, nil
}

// Validate проверяет токен и возвращает id пользователя.
func (s *ServiceJWT) Validate(ctx context.Context, tokenString string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", "ServiceJWT.Validate"))

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return "", svc.ErrExpiredToken
		}
		log.Debug(ctx, msgInvalidToken, zap.Error(err))
		return "", fmt.Errorf("%w: %w", svc.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		log.Debug(ctx, msgInvalidToken)
		return "", svc.ErrInvalidToken
	}
	return claims.UserID, nil
}
