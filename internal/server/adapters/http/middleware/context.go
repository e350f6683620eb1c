// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Ключи fiber.Locals.
const (
	LocalsContext = "userContext"
	LocalsUserID  = "userID"
)

// RequestContext возвращает контекст запроса с логгером и request id.
func RequestContext(c fiber.Ctx) context.Context {
	if ctx, ok := c.Locals(LocalsContext).(context.Context); ok {
		return ctx
	}
	return c.Context()
}

// UserID возвращает id пользователя, проверенный NewAuthMiddleware.
func UserID(c fiber.Ctx) string {
	id, _ := c.Locals(LocalsUserID).(string)
	return id
}
