package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notasapp/pkg/logger"
)

// HeaderRequestID - заголовок идентификатора запроса.
const HeaderRequestID = "X-Request-ID"

// NewLoggerMiddleware создает промежуточное ПО для логирования HTTP запросов.
// Контекст запроса получает request id и логгер с этим id.
func NewLoggerMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(c.Context(), c.Get(HeaderRequestID))
		log := logger.Log(requestCtx).WithRequestID(requestCtx)
		requestCtx = logger.NewContext(requestCtx, log)

		if id, ok := logger.GetRequestID(requestCtx); ok {
			c.Set(HeaderRequestID, id)
		}
		c.Locals(LocalsContext, requestCtx)

		start := time.Now()
		log = log.With(
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.String("ip", c.IP()),
		)
		log.Debug(requestCtx, "Request started")

		err := c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			log.Error(requestCtx, "Request failed", append(fields, zap.Error(err))...)
			return fmt.Errorf("request processing error: %w", err)
		}

		log.Info(requestCtx, "Request completed", fields...)
		return nil
	}
}
