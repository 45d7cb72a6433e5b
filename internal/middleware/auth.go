package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"webdating-engagement/internal/pkg/token"
)

const UserIDContextKey = "user_id"

// AuthRequired accepts HS256 bearer tokens issued by the account service and
// stores the caller's user id in the request locals.
func AuthRequired(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return Unauthorized("Missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return Unauthorized("Invalid authorization header format")
		}

		claims, err := token.Parse(parts[1], jwtSecret)
		if err != nil {
			return Unauthorized("Invalid or expired token")
		}

		c.Locals(UserIDContextKey, claims.UserID)
		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) (int64, error) {
	userID, ok := c.Locals(UserIDContextKey).(int64)
	if !ok || userID <= 0 {
		return 0, Unauthorized("User not authenticated")
	}
	return userID, nil
}
