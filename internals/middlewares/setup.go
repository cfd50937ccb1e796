package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"gerejaku_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware dasar urut: recovery paling luar,
// lalu security headers, CORS, rate limit global, terakhir request logger.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(SecurityHeaders())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
	app.Use(logger.LoggerMiddleware())
}
