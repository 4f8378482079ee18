package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userIdLocal = "user_id"

// JwtMiddleware verifies an HS256 bearer token and stores its user_id
// (or sub) claim in ctx.Locals.
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing token")
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid claims")
		}
		userId, _ := claims["user_id"].(string)
		if userId == "" {
			userId, _ = claims.GetSubject()
		}
		if userId == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid claims")
		}

		ctx.Locals(userIdLocal, userId)
		return ctx.Next()
	}
}

// UserID returns the authenticated user, or fallback when auth is off.
func UserID(ctx *fiber.Ctx, fallback string) string {
	if id, ok := ctx.Locals(userIdLocal).(string); ok && id != "" {
		return id
	}
	return fallback
}
