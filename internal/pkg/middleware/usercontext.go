package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RamilOcampo/GymDesk/internal/pkg/session"
	"github.com/RamilOcampo/GymDesk/internal/pkg/usercontext"
)

// StaffContextMiddleware resolves the session into a StaffContext and stores
// it in Locals for every request. Anonymous requests get the zero context.
func StaffContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals("STAFF_CONTEXT", usercontext.StaffContext{})
		return c.Next()
	}

	staffCtx := usercontext.StaffContext{}
	if auth, ok := sess.Get(usercontext.AuthKey).(bool); ok && auth {
		staffCtx.IsLoggedIn = true
		if id, ok := sess.Get(usercontext.KeyStaffID).(uint); ok {
			staffCtx.StaffID = id
		}
		if name, ok := sess.Get(usercontext.KeyStaffName).(string); ok {
			staffCtx.Name = name
		}
		if admin, ok := sess.Get(usercontext.KeyIsAdmin).(bool); ok {
			staffCtx.IsAdmin = admin
		}
	}

	c.Locals("STAFF_CONTEXT", staffCtx)
	c.Locals(usercontext.KeyFromProtected, staffCtx.IsLoggedIn)
	if staffCtx.IsLoggedIn {
		c.Locals(usercontext.KeyStaffID, staffCtx.StaffID)
		c.Locals(usercontext.KeyStaffName, staffCtx.Name)
		c.Locals(usercontext.KeyIsAdmin, staffCtx.IsAdmin)
	}

	return c.Next()
}
