// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5500",
}

// CorsMiddleware membuat middleware CORS; origins kosong → default dev.
func CorsMiddleware(origins []string) fiber.Handler {
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	allowCreds := true
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			// fiber menolak wildcard + credentials
			allowCreds = false
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "Content-Disposition",
		AllowCredentials: allowCreds,
	})
}
