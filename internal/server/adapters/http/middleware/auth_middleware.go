package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notasapp/pkg/logger"
)

// HeaderAuthToken - заголовок с токеном пользователя.
const HeaderAuthToken = "x-auth-token"

// Константы для логирования.
const (
	ErrorNoAuthToken = "no auth token provided"
	ErrorInvalidAuth = "invalid or expired token"
)

// Authenticator проверяет токен и возвращает id пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// NewAuthMiddleware проверяет токен из x-auth-token (или Authorization: Bearer)
// и кладет id пользователя в Locals.
func NewAuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c fiber.Ctx) error {
		requestCtx := RequestContext(c)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))

		token := c.Get(HeaderAuthToken)
		if token == "" {
			token = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}
		if token == "" {
			log.Debug(requestCtx, ErrorNoAuthToken)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrorNoAuthToken})
		}

		userID, err := auth.Authenticate(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidAuth, zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrorInvalidAuth})
		}

		c.Locals(LocalsUserID, userID)
		c.Locals(LocalsContext, logger.NewContext(requestCtx,
			logger.Log(requestCtx).With(zap.String("user_id", userID))))

		return c.Next()
	}
}
