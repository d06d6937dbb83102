package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RamilOcampo/GymDesk/internal/pkg/usercontext"
)

// RequireStaff rejects requests without an authenticated staff session.
func RequireStaff(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Staff login required",
		})
	}
	return c.Next()
}

// RequireAdmin rejects requests whose staff session lacks the admin role.
func RequireAdmin(c *fiber.Ctx) error {
	staffCtx := usercontext.GetStaffContext(c)
	if !staffCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Staff login required",
		})
	}
	if !staffCtx.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "Admin role required",
		})
	}
	return c.Next()
}
