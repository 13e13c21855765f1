// Package middleware contains HTTP middleware functions for the HobbyHokej API.
// This file handles role-based access control (RBAC): checking that the
// authenticated account has permission to perform the requested action.
package middleware

// roles.go: Role-based access control middleware.
// The app has three roles: admin, manager, user. Admins run match state (cancel,
// capacity, unexcused absences); managers share the lineup tools with them.

import (
	"github.com/gofiber/fiber/v2"

	// models holds the UserRole constants, so routes name roles with typed values
	// instead of loose strings
	"github.com/PetrH630/hobbyhokej/internal/models"
)

// RequireRole returns a middleware handler that allows only accounts whose role
// matches one of the provided roles. Returns HTTP 403 Forbidden if the role
// doesn't match.
//
// It accepts a variadic list of roles ("..." syntax) so one call can allow one or
// more roles on a route:
//
//	api.Post("/matches/:id/lineup", middleware.RequireRole(models.UserRoleAdmin, models.UserRoleManager), h.GenerateLineup)
//
// RequireRole must be used AFTER the Auth middleware, because Auth is what
// populates the role in the request context via c.Locals.
func RequireRole(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Role reads the value Auth stored in c.Locals for this request.
		// An empty role means Auth was not applied or found no role.
		userRole := Role(c)
		if userRole == "" {
			// 403 rather than 401: the caller may be authenticated but still has no role
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}

		// Return c.Next() the moment one of the accepted roles matches.
		for _, role := range roles {
			if userRole == role {
				// Role is allowed: pass the request to the next handler
				return c.Next()
			}
		}

		// Authenticated but not authorized for this action.
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}
