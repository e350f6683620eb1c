package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notasapp/internal/server/adapters/http/middleware"
	"notasapp/internal/server/ports/api"
	"notasapp/pkg/logger"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserHandler содержит HTTP обработчики пользователей.
type UserHandler struct {
	auth api.AuthService
}

// NewUserHandler создает новый экземпляр UserHandler.
func NewUserHandler(auth api.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// Register обрабатывает регистрацию пользователя.
func (h *UserHandler) Register(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)
	log := logger.Log(ctx).With(zap.String("handler", "UserHandler.Register"))

	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		log.Debug(ctx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(c, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}
	if msg, ok := validateRequest(&req); !ok {
		return sendError(c, fiber.StatusBadRequest, msg)
	}

	res, err := h.auth.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		log.Warn(ctx, "registration failed", zap.Error(err))
		return handleError(c, err)
	}

	if err := c.Status(fiber.StatusCreated).JSON(res); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Login обрабатывает вход пользователя.
func (h *UserHandler) Login(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)
	log := logger.Log(ctx).With(zap.String("handler", "UserHandler.Login"))

	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		log.Debug(ctx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(c, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}
	if msg, ok := validateRequest(&req); !ok {
		return sendError(c, fiber.StatusBadRequest, msg)
	}

	res, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Debug(ctx, "login failed", zap.Error(err))
		return handleError(c, err)
	}

	return c.JSON(res)
}

// Me возвращает профиль владельца токена.
func (h *UserHandler) Me(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)

	user, err := h.auth.Profile(ctx, middleware.UserID(c))
	if err != nil {
		logger.Log(ctx).Warn(ctx, "failed to load profile", zap.Error(err))
		return handleError(c, err)
	}
	return c.JSON(user)
}
