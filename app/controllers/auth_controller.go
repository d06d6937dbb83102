package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/RamilOcampo/GymDesk/app/models"
	"github.com/RamilOcampo/GymDesk/app/repository"
	"github.com/RamilOcampo/GymDesk/internal/pkg/session"
	"github.com/RamilOcampo/GymDesk/internal/pkg/usercontext"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates a staff account and opens a session.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Email and password are required")
	}

	staff, err := repository.GetGlobalFactory().GetStaffRepository().GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid email or password")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load staff account")
	}

	if staff.Status != models.STATUS_ACTIVE {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Account is disabled")
	}
	if !models.CheckPasswordHash(req.Password, staff.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid email or password")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to open session")
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyStaffID, staff.ID)
	sess.Set(usercontext.KeyStaffName, staff.Name)
	sess.Set(usercontext.KeyIsAdmin, staff.Role == models.ROLE_ADMIN)
	if err := sess.Save(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save session")
	}

	now := time.Now()
	staff.LastLoginAt = &now
	if err := repository.GetGlobalFactory().GetStaffRepository().Update(staff); err != nil {
		log.Warnf("[Auth] Failed to record last login for staff %d: %v", staff.ID, err)
	}

	log.Infof("[Auth] Staff %s logged in from %s", staff.Email, GetClientIP(c))

	return c.JSON(fiber.Map{
		"id":       staff.ID,
		"name":     staff.Name,
		"email":    staff.Email,
		"is_admin": staff.Role == models.ROLE_ADMIN,
	})
}

// HandleLogout destroys the current session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			log.Warnf("[Auth] Failed to destroy session: %v", err)
		}
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleMe returns the authenticated staff account.
func HandleMe(c *fiber.Ctx) error {
	staffCtx := usercontext.GetStaffContext(c)
	if !staffCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid authentication")
	}

	staff, err := repository.GetGlobalFactory().GetStaffRepository().GetByID(staffCtx.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Staff account not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load staff account")
	}

	return c.JSON(fiber.Map{
		"id":            staff.ID,
		"name":          staff.Name,
		"email":         staff.Email,
		"role":          staff.Role,
		"status":        staff.Status,
		"last_login_at": formatTimePtr(staff.LastLoginAt),
		"created_at":    staff.CreatedAt.UTC().Format(time.RFC3339),
	})
}
