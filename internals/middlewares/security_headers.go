package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
)

// SecurityHeaders: header keamanan standar (X-Frame-Options dkk).
func SecurityHeaders() fiber.Handler {
	return helmet.New()
}
