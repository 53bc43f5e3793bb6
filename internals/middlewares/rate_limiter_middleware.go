package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func limitReached(msg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success":    false,
			"message":    msg,
			"error_code": "TOO_MANY_REQUESTS",
		})
	}
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: limitReached("❌ Terlalu banyak permintaan. Silakan coba lagi nanti."),
	})
}

// Rate limiter untuk submit presensi (lebih ketat, satu kios bisa dipakai banyak orang)
func CheckinRateLimiter(max int) fiber.Handler {
	if max <= 0 {
		max = 30
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: limitReached("❌ Terlalu banyak percobaan presensi. Coba beberapa saat lagi."),
	})
}
