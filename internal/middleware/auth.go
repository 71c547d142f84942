package middleware

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/covematch/internal/services"
	"github.com/localnerve/covematch/internal/types"
	"github.com/sirupsen/logrus"
)

const callerKey = "caller"

// UserSyncer records authenticated callers in the user directory
type UserSyncer interface {
	SyncUser(ctx context.Context, caller services.Caller, email string) error
}

// AuthAdmin validates that the request has admin role authorization
func AuthAdmin(sessions services.SessionValidator, users UserSyncer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, sessions, users, []string{services.RoleAdmin}, "match.authorization.admin")
	}
}

// AuthUser validates that the request has user role authorization
func AuthUser(sessions services.SessionValidator, users UserSyncer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, sessions, users, []string{"user"}, "match.authorization.user")
	}
}

// authorize performs the authorization check and resolves the caller once
func authorize(c *fiber.Ctx, sessions services.SessionValidator, users UserSyncer, roles []string, errorType string) error {
	// Get session cookie
	cookie := c.Cookies("cookie_session")
	if cookie == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    errorType,
		}
	}

	session, err := sessions.ValidateSession(cookie, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
		}
	}

	caller := session.Caller()
	if users != nil {
		if err := users.SyncUser(c.UserContext(), caller, session.Email); err != nil {
			logrus.WithError(err).WithField("user_id", caller.ID).Error("Failed to sync user")
			return &types.CustomError{
				Code:    fiber.StatusInternalServerError,
				Message: "Failed to record user",
				Type:    "user.sync",
			}
		}
	}

	c.Locals(callerKey, caller)
	return c.Next()
}

// CallerFrom returns the caller resolved by AuthUser or AuthAdmin
func CallerFrom(c *fiber.Ctx) (services.Caller, bool) {
	caller, ok := c.Locals(callerKey).(services.Caller)
	return caller, ok && caller.ID != ""
}
