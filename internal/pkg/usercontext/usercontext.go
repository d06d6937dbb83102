package usercontext

import "github.com/gofiber/fiber/v2"

// StaffContext represents the authenticated staff account for a request
type StaffContext struct {
	StaffID    uint   `json:"staff_id"`
	Name       string `json:"name"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
}

// GetStaffContext retrieves the staff context from fiber context.
// Returns a default anonymous context if none is set
func GetStaffContext(c *fiber.Ctx) StaffContext {
	if ctx := c.Locals("STAFF_CONTEXT"); ctx != nil {
		return ctx.(StaffContext)
	}
	return StaffContext{IsLoggedIn: false, IsAdmin: false}
}

// IsLoggedIn checks if the current request carries an authenticated staff account
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetStaffContext(c).IsLoggedIn
}

// IsAdmin checks if the current staff account is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetStaffContext(c).IsAdmin
}

// GetStaffID returns the current staff account's ID, or 0 if not logged in
func GetStaffID(c *fiber.Ctx) uint {
	return GetStaffContext(c).StaffID
}
