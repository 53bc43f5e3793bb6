package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"attendance_backend/internals/constants"
	helper "attendance_backend/internals/helpers"
)

const (
	LocClaims = "jwt_claims"
	LocRole   = "userRole"
)

type AdminJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // pakai cookie access_token jika tidak ada Bearer
	Feature             string
}

// AdminJWT menjaga grup /api/a. Secret kosong → guard dimatikan (mode dev)
// dengan satu warning di log.
func AdminJWT(o AdminJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		log.Println("⚠️  ADMIN_JWT_SECRET kosong, endpoint admin tidak dijaga")
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	feature := o.Feature
	if feature == "" {
		feature = "laporan presensi"
	}

	return func(c *fiber.Ctx) error {
		raw := bearerToken(c, o.AllowCookieFallback)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid token")
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid token claims")
		}

		if !IsAdmin(claims) {
			return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorAdmin(feature))
		}

		c.Locals(LocClaims, claims)
		c.Locals(LocRole, constants.RoleAdmin)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx, cookieFallback bool) string {
	if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	if cookieFallback {
		return strings.TrimSpace(c.Cookies("access_token"))
	}
	return ""
}

// IsAdmin: klaim "role" atau salah satu "roles_global" bernilai admin.
func IsAdmin(claims jwt.MapClaims) bool {
	if strings.EqualFold(strClaim(claims, "role"), constants.RoleAdmin) {
		return true
	}
	for _, r := range readStringSlice(claims["roles_global"]) {
		if strings.EqualFold(r, constants.RoleAdmin) {
			return true
		}
	}
	return false
}

// util kecil untuk ambil string claim
func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// util: ubah nilai interface{} → []string (robust untuk []string atau []any)
func readStringSlice(v any) []string {
	out := make([]string, 0)
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
