package auth

import "github.com/gofiber/fiber/v2"

const (
	localUserID = "user_id"
	localRole   = "role"
	localLang   = "lang"

	RoleAdmin = "admin"
	RoleUser  = "utente"
)

// Middleware trusts the identity headers populated by the session gateway in
// front of this service. The service performs no authentication of its own.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localUserID, c.Get("X-User-ID"))
		c.Locals(localRole, c.Get("X-User-Role"))

		lang := c.Get("X-Lang")
		if lang == "" {
			lang = c.Get("Accept-Language", "en")
		}
		c.Locals(localLang, lang)
		return c.Next()
	}
}

func UserID(c *fiber.Ctx) string {
	if val, ok := c.Locals(localUserID).(string); ok {
		return val
	}
	return ""
}

func IsAdmin(c *fiber.Ctx) bool {
	val, ok := c.Locals(localRole).(string)
	return ok && val == RoleAdmin
}

func Lang(c *fiber.Ctx) string {
	if val, ok := c.Locals(localLang).(string); ok && val != "" {
		return val
	}
	return "en"
}

// RequireUser rejects requests without an authenticated user id.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
		}
		return c.Next()
	}
}

// RequireAdmin rejects requests without the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsAdmin(c) {
			return fiber.NewError(fiber.StatusForbidden, "admin role required")
		}
		return c.Next()
	}
}
