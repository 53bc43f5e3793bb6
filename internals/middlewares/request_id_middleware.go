package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// RequestIDMiddleware: X-Request-ID dari client dipakai ulang, kalau kosong dibuat baru.
func RequestIDMiddleware() fiber.Handler {
	return requestid.New(requestid.Config{
		Header: fiber.HeaderXRequestID,
		Generator: func() string {
			return uuid.NewString()
		},
		ContextKey: "requestid",
	})
}
