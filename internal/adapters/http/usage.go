package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/routekit/internal/core/domain"
)

// UsageHandler returns the caller's remaining route calculations.
func UsageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		usage, err := deps.Usage.Get(c.UserContext(), currentUser(c).ID)
		if errors.Is(err, domain.ErrNotFound) {
			return errNotFound(c, "no usage record for user")
		}
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("get usage failed", "error", err)
			return errInternal(c, "failed to load usage")
		}
		return c.JSON(usage)
	}
}
