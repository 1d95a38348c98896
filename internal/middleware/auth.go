package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"github.com/localnerve/jam-build-shoppinglist/internal/services"
	"github.com/localnerve/jam-build-shoppinglist/internal/types"
	"gorm.io/gorm"
)

const (
	userKey  = "user"
	tokenKey = "authToken"

	// AuthScheme is the Authorization header keyword and WWW-Authenticate challenge
	AuthScheme = "Token"
)

// Authentication failure messages
const (
	MsgNoCredentials = "Authentication credentials were not provided."
	MsgInvalidToken  = "Invalid token."
	MsgInactiveUser  = "User inactive or deleted."
	MsgInvalidHeader = "Invalid token header. No credentials provided."
	MsgHeaderSpaces  = "Invalid token header. Token string should not contain spaces."
	authErrorType    = "authentication"
)

// Authenticate resolves an "Authorization: Token <key>" header to the user it
// belongs to. Requests without the header pass through anonymous; a bad
// header or key is rejected.
func Authenticate(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			return c.Next()
		}

		fields := strings.Fields(header)
		if !strings.EqualFold(fields[0], AuthScheme) {
			// another scheme is not ours to judge
			return c.Next()
		}
		switch {
		case len(fields) == 1:
			return unauthorized(c, MsgInvalidHeader)
		case len(fields) > 2:
			return unauthorized(c, MsgHeaderSpaces)
		}

		user, err := services.UserForToken(c.UserContext(), db, fields[1])
		switch {
		case errors.Is(err, services.ErrInvalidToken):
			return unauthorized(c, MsgInvalidToken)
		case errors.Is(err, services.ErrInactiveUser):
			return unauthorized(c, MsgInactiveUser)
		case err != nil:
			return err
		}

		c.Locals(userKey, user)
		c.Locals(tokenKey, fields[1])
		return c.Next()
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return unauthorized(c, MsgNoCredentials)
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// CurrentToken returns the API token the request authenticated with
func CurrentToken(c *fiber.Ctx) string {
	key, _ := c.Locals(tokenKey).(string)
	return key
}

func unauthorized(c *fiber.Ctx, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, AuthScheme)
	return types.NewError(fiber.StatusUnauthorized, message, authErrorType)
}
