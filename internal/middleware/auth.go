package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	"movieflix/internal/models"
)

// UserLoader loads a user record during token verification.
// *repository.UserRepository implements it.
type UserLoader interface {
	GetByID(id int) (*models.User, error)
}

// AuthUser is the authenticated identity stored in request locals.
type AuthUser struct {
	ID       int
	Username string
	Email    string
}

const localsUserKey = "auth_user"

// Auth returns middleware that requires a valid bearer token. The token's
// subject must reference an existing user.
func Auth(secret string, users UserLoader) fiber.Handler {
	return func(c fiber.Ctx) error {
		user, err := userFromToken(c, secret, users)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		c.Locals(localsUserKey, user)
		return c.Next()
	}
}

// OptionalAuth returns middleware that attaches the caller's identity when a
// valid bearer token is present and continues anonymously otherwise.
func OptionalAuth(secret string, users UserLoader) fiber.Handler {
	return func(c fiber.Ctx) error {
		if user, err := userFromToken(c, secret, users); err == nil {
			c.Locals(localsUserKey, user)
		}
		return c.Next()
	}
}

// UserFromContext returns the authenticated identity, if any.
func UserFromContext(c fiber.Ctx) (AuthUser, bool) {
	user, ok := c.Locals(localsUserKey).(AuthUser)
	return user, ok
}

func userFromToken(c fiber.Ctx, secret string, users UserLoader) (AuthUser, error) {
	authHeader := c.Get("Authorization")
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == "" || tokenStr == authHeader {
		return AuthUser{}, fmt.Errorf("authentication required")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return AuthUser{}, fmt.Errorf("invalid token")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return AuthUser{}, fmt.Errorf("invalid token")
	}
	userID, err := strconv.Atoi(subject)
	if err != nil {
		return AuthUser{}, fmt.Errorf("invalid token")
	}

	user, err := users.GetByID(userID)
	if err != nil {
		return AuthUser{}, fmt.Errorf("user not found")
	}

	return AuthUser{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}
