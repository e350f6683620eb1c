package handlers

import "github.com/gofiber/fiber/v3"

// Health отвечает на проверку доступности.
func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
