package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/covematch/internal/types"
)

// SupportedAPIVersions are the X-Api-Version values this service answers
var SupportedAPIVersions = []string{"1.0.0"}

// VersionMiddleware parses the X-Api-Version header and stores it in context
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", "1.0.0")

		// Support version aliases
		if version == "1" || version == "1.0" {
			version = "1.0.0"
		}

		supported := false
		for _, v := range SupportedAPIVersions {
			if v == version {
				supported = true
				break
			}
		}
		if !supported {
			return &types.CustomError{
				Code:    fiber.StatusBadRequest,
				Message: "Unsupported API version " + version,
				Type:    "api.version",
			}
		}

		// Store version in context
		c.Locals("apiVersion", version)

		return c.Next()
	}
}
