package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/config"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// CurrentUserID extracts the authenticated account ID from the verified
// token. uuid.Nil means the route was not behind JWTProtected.
func CurrentUserID(c *fiber.Ctx) uuid.UUID {
	claims := tokenClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// CurrentRole returns the role claim of the authenticated account.
func CurrentRole(c *fiber.Ctx) string {
	claims := tokenClaims(c)
	if claims == nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

// CurrentEmail returns the email claim of the authenticated account.
func CurrentEmail(c *fiber.Ctx) string {
	claims := tokenClaims(c)
	if claims == nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

func tokenClaims(c *fiber.Ctx) jwt.MapClaims {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}

// RoleRequired rejects authenticated accounts whose role claim does not
// match. Stack after JWTProtected.
func RoleRequired(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentRole(c) != role {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Forbidden: " + role + " access required",
			})
		}
		return c.Next()
	}
}
