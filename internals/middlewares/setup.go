package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"attendance_backend/internals/configs"
	"attendance_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global: recovery, access log, CORS, limiter.
func SetupMiddlewares(app *fiber.App, cfg configs.AppConfig) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware(cfg.Timezone))
	app.Use(CorsMiddleware(cfg.CorsOrigins))
	app.Use(GlobalRateLimiter())
}
