package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/localnerve/jam-build-shoppinglist/internal/config"
)

// MsgThrottled is the 429 detail, completed with the seconds to wait
const MsgThrottled = "Request was throttled. Expected available in %s seconds."

// Throttle limits anonymous requests per client IP at anon, and
// authenticated requests per API token at user.
func Throttle(anon, user config.Rate) fiber.Handler {
	anonLimiter := limiter.New(limiter.Config{
		Max:        anon.Requests,
		Expiration: anon.Period,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "anon:" + c.IP()
		},
		LimitReached: throttled,
	})

	userLimiter := limiter.New(limiter.Config{
		Max:        user.Requests,
		Expiration: user.Period,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "user:" + CurrentToken(c)
		},
		LimitReached: throttled,
	})

	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return anonLimiter(c)
		}
		return userLimiter(c)
	}
}

// throttled answers a limited request; the limiter has already set Retry-After
func throttled(c *fiber.Ctx) error {
	wait := c.GetRespHeader(fiber.HeaderRetryAfter, "0")
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"detail": fmt.Sprintf(MsgThrottled, wait),
	})
}
