package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cret"

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func guardedApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/a/ping", AdminJWT(AdminJWTOpts{Secret: secret, AllowCookieFallback: true}), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestAdminJWT(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"garbage", "Bearer nope", fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + sign(t, "other", jwt.MapClaims{"role": "admin", "exp": exp}), fiber.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, testSecret, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}), fiber.StatusUnauthorized},
		{"not admin", "Bearer " + sign(t, testSecret, jwt.MapClaims{"role": "user", "exp": exp}), fiber.StatusForbidden},
		{"role admin", "Bearer " + sign(t, testSecret, jwt.MapClaims{"role": "Admin", "exp": exp}), fiber.StatusOK},
		{"roles_global", "Bearer " + sign(t, testSecret, jwt.MapClaims{"roles_global": []string{"user", "admin"}, "exp": exp}), fiber.StatusOK},
	}

	app := guardedApp(testSecret)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/a/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestAdminJWTCookieFallback(t *testing.T) {
	app := guardedApp(testSecret)
	req := httptest.NewRequest("GET", "/a/ping", nil)
	req.Header.Set("Cookie", "access_token="+sign(t, testSecret, jwt.MapClaims{"role": "admin"}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminJWTDisabledWithoutSecret(t *testing.T) {
	resp, err := guardedApp("").Test(httptest.NewRequest("GET", "/a/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
