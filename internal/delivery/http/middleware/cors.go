package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS - API открыт для чтения с любых origin, без cookies
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Content-Type,Accept,Accept-Language," + RequestIDHeader,
		ExposeHeaders: RequestIDHeader,
	})
}
