// Package handlers содержит HTTP обработчики сервера заметок.
package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"notasapp/internal/server/app"
	"notasapp/internal/server/domain/entities"
)

// Сообщения об ошибках запроса.
const (
	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgInternal           = "internal server error"
)

func sendError(c fiber.Ctx, status int, message string) error {
	if err := c.Status(status).JSON(fiber.Map{"error": message}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// handleError отображает ошибки сценариев на HTTP статусы. Внутренние
// ошибки не раскрываются клиенту.
func handleError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, entities.ErrRecordNotFound), errors.Is(err, entities.ErrUserNotFound):
		return sendError(c, fiber.StatusNotFound, rootMessage(err))
	case errors.Is(err, entities.ErrEmailAlreadyExists):
		return sendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrInvalidCredentials), errors.Is(err, app.ErrUnauthorized):
		return sendError(c, fiber.StatusUnauthorized, rootMessage(err))
	case errors.Is(err, app.ErrInvalidParams),
		errors.Is(err, entities.ErrInvalidDocument),
		errors.Is(err, entities.ErrInvalidEmail),
		errors.Is(err, entities.ErrEmptyName),
		errors.Is(err, entities.ErrPasswordTooShort):
		return sendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return sendError(c, fiber.StatusInternalServerError, ErrMsgInternal)
	}
}

// rootMessage возвращает текст известной ошибки без контекста обертки.
func rootMessage(err error) string {
	for _, known := range []error{
		entities.ErrRecordNotFound,
		entities.ErrUserNotFound,
		entities.ErrInvalidCredentials,
		app.ErrUnauthorized,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}
