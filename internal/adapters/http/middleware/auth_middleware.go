package middleware

import (
	"messpay/internal/core/domain"
	"messpay/internal/core/services"
	"messpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by RequireSession
const (
	LocalSession = "session"
	LocalUserID  = "userID"
	LocalRole    = "role"
)

// RequireSession rejects requests with 401 unless a user is logged in on the device
func RequireSession(active *services.ActiveSession) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := active.Get()
		if err != nil {
			return response.Unauthorized(c, "No active session, please log in")
		}

		c.Locals(LocalSession, sess)
		c.Locals(LocalUserID, sess.UserID())
		c.Locals(LocalRole, sess.Role())

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(domain.Role)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		// Check if user's role is in allowed roles
		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// StudentOnly middleware allows only the student role
func StudentOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleStudent)
}

// OwnerOrProvider middleware allows mess-owner or provider roles
func OwnerOrProvider() fiber.Handler {
	return RoleMiddleware(domain.RoleMessOwner, domain.RoleProvider)
}

// SessionFrom returns the session stored by RequireSession
func SessionFrom(c *fiber.Ctx) (*services.Session, bool) {
	sess, ok := c.Locals(LocalSession).(*services.Session)
	return sess, ok && sess != nil
}
