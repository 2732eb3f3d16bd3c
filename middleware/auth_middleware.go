package middleware

import (
	"errors"

	"github.com/Sr1515/social_network/auth"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var errNoClaims = errors.New("no access token claims on request")

// Protected accepts only access tokens signed with secret.
func Protected(secret []byte) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     secret,
		Claims:         &auth.Claims{},
		ErrorHandler:   jwtError,
		SuccessHandler: accessTokenOnly,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// Refresh tokens carry the same signature, so they would pass jwtware on their own.
func accessTokenOnly(c *fiber.Ctx) error {
	claims, err := claimsFrom(c)
	if err != nil || claims.TokenType != auth.AccessToken {
		return jwtError(c, auth.ErrWrongTokenType)
	}
	return c.Next()
}

func claimsFrom(c *fiber.Ctx) (*auth.Claims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, errNoClaims
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, errNoClaims
	}
	return claims, nil
}

// CurrentUserID returns the id of the user behind the request's access token.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.UserID)
}

// StaffRequired must run after Protected. The staff flag is read from the database on every request.
func StaffRequired(users auth.UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		user, err := users.FindByID(c.UserContext(), userID)
		if err != nil || !user.IsStaff || !user.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Staff access required",
			})
		}
		return c.Next()
	}
}
