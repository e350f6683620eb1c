package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notasapp/internal/server/adapters/http/middleware"
	"notasapp/internal/server/domain/entities"
	"notasapp/internal/server/ports/api"
	"notasapp/pkg/logger"
)

// RecordHandler обслуживает CRUD и синхронизацию одной коллекции.
// Тело sync-запроса - {"<collection>": [...]}, ответ - {"all<Collection>": [...]}.
type RecordHandler struct {
	records  api.RecordService
	inField  string
	outField string
}

// NewRecordHandler создает обработчик коллекции.
func NewRecordHandler(records api.RecordService, collection entities.Collection) *RecordHandler {
	name := string(collection)
	return &RecordHandler{records: records, inField: name, outField: "all" + strings.ToUpper(name[:1]) + name[1:]}
}

// List возвращает все документы пользователя.
func (h *RecordHandler) List(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)

	docs, err := h.records.List(ctx, middleware.UserID(c))
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to list records", zap.Error(err))
		return handleError(c, err)
	}
	return c.JSON(docs)
}

// Create сохраняет новый документ.
func (h *RecordHandler) Create(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)
	log := logger.Log(ctx).With(zap.String("handler", "RecordHandler.Create"))

	doc, err := h.body(c)
	if err != nil {
		log.Debug(ctx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(c, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	saved, err := h.records.Create(ctx, middleware.UserID(c), doc)
	if err != nil {
		log.Error(ctx, "failed to create record", zap.Error(err))
		return handleError(c, err)
	}

	if err := c.Status(fiber.StatusCreated).JSON(saved); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Update заменяет документ :id.
func (h *RecordHandler) Update(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)
	log := logger.Log(ctx).With(zap.String("handler", "RecordHandler.Update"))

	doc, err := h.body(c)
	if err != nil {
		log.Debug(ctx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(c, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	saved, err := h.records.Update(ctx, middleware.UserID(c), c.Params("id"), doc)
	if err != nil {
		log.Warn(ctx, "failed to update record", zap.Error(err))
		return handleError(c, err)
	}
	return c.JSON(saved)
}

// Delete удаляет документ :id.
func (h *RecordHandler) Delete(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)

	if err := h.records.Delete(ctx, middleware.UserID(c), c.Params("id")); err != nil {
		logger.Log(ctx).Warn(ctx, "failed to delete record", zap.Error(err))
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Sync записывает пакет документов и возвращает полный список.
func (h *RecordHandler) Sync(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)
	log := logger.Log(ctx).With(zap.String("handler", "RecordHandler.Sync"))

	var req map[string][]json.RawMessage
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		log.Debug(ctx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(c, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	all, err := h.records.Sync(ctx, middleware.UserID(c), req[h.inField])
	if err != nil {
		log.Error(ctx, "sync failed", zap.Error(err))
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{h.outField: all})
}

// body копирует тело запроса: буфер fasthttp переиспользуется после ответа.
func (h *RecordHandler) body(c fiber.Ctx) (json.RawMessage, error) {
	raw := c.Body()
	if !json.Valid(raw) {
		return nil, entities.ErrInvalidDocument
	}
	return append(json.RawMessage(nil), raw...), nil
}
