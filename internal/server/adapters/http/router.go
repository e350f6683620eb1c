// Package http содержит REST API сервера заметок.
package http

import (
	"github.com/gofiber/fiber/v3"

	"notasapp/internal/server/adapters/http/handlers"
	"notasapp/internal/server/adapters/http/middleware"
	"notasapp/internal/server/domain/entities"
	"notasapp/internal/server/ports/api"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, auth api.AuthService, notes, categories api.RecordService) {
	userHandler := handlers.NewUserHandler(auth)
	authRequired := middleware.NewAuthMiddleware(auth)

	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	apiGroup := app.Group("/api")
	apiGroup.Get("/health", handlers.Health)

	// Публичные маршруты пользователей.
	users := apiGroup.Group("/users")
	users.Post("/register", userHandler.Register)
	users.Post("/login", userHandler.Login)
	users.Get("/me", authRequired, userHandler.Me)

	mountRecords(apiGroup.Group("/notes"), authRequired, handlers.NewRecordHandler(notes, entities.Notes))
	mountRecords(apiGroup.Group("/categories"), authRequired, handlers.NewRecordHandler(categories, entities.Categories))

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}

func mountRecords(group fiber.Router, authRequired fiber.Handler, h *handlers.RecordHandler) {
	group.Use(authRequired)
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Post("/sync", h.Sync)
	group.Put("/:id", h.Update)
	group.Delete("/:id", h.Delete)
}
