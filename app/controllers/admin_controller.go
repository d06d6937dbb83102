package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/RamilOcampo/GymDesk/app/models"
	"github.com/RamilOcampo/GymDesk/app/repository"
	"github.com/RamilOcampo/GymDesk/internal/pkg/membership"
)

type staffRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func staffResponse(s *models.Staff) fiber.Map {
	return fiber.Map{
		"id":            s.ID,
		"name":          s.Name,
		"email":         s.Email,
		"role":          s.Role,
		"status":        s.Status,
		"has_api_key":   s.APIKeyHash != "" && s.APIKeyRevokedAt == nil,
		"last_login_at": formatTimePtr(s.LastLoginAt),
		"created_at":    s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// HandleAdminListStaff returns all staff accounts.
func HandleAdminListStaff(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repo := repository.GetGlobalFactory().GetStaffRepository()

	staff, err := repo.List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list staff")
	}
	total, err := repo.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count staff")
	}

	items := make([]fiber.Map, 0, len(staff))
	for i := range staff {
		items = append(items, staffResponse(&staff[i]))
	}
	return c.JSON(fiber.Map{"staff": items, "total": total})
}

// HandleAdminCreateStaff creates a staff account.
func HandleAdminCreateStaff(c *fiber.Ctx) error {
	var req staffRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetStaffRepository()
	if existing, err := repo.GetByEmail(req.Email); err == nil && existing != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Email is already taken")
	}

	staff, err := models.CreateStaff(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Create(staff); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create staff account")
	}

	log.Infof("[Admin] Created staff account %s (%s)", staff.Email, staff.Role)
	return c.Status(fiber.StatusCreated).JSON(staffResponse(staff))
}

func findStaff(c *fiber.Ctx) (*models.Staff, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid staff ID")
	}
	staff, err := repository.GetGlobalFactory().GetStaffRepository().GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "not_found", "Staff account not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load staff account")
	}
	return staff, nil
}

// HandleAdminUpdateStaff updates role, status or password of an account.
func HandleAdminUpdateStaff(c *fiber.Ctx) error {
	staff, err := findStaff(c)
	if staff == nil {
		return err
	}

	var req staffRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.Name != "" {
		staff.Name = req.Name
	}
	if req.Role == models.ROLE_ADMIN || req.Role == models.ROLE_STAFF {
		staff.Role = req.Role
	}
	if req.Status != "" {
		staff.Status = req.Status
	}
	if req.Password != "" {
		hashed, err := models.HashPassword(req.Password)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to hash password")
		}
		staff.Password = hashed
	}
	if err := staff.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetStaffRepository().Update(staff); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update staff account")
	}
	return c.JSON(staffResponse(staff))
}

// HandleAdminDeleteStaff removes a staff account.
func HandleAdminDeleteStaff(c *fiber.Ctx) error {
	staff, err := findStaff(c)
	if staff == nil {
		return err
	}
	if err := repository.GetGlobalFactory().GetStaffRepository().Delete(staff.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete staff account")
	}
	log.Infof("[Admin] Deleted staff account %s", staff.Email)
	return c.JSON(fiber.Map{"message": "Staff account deleted"})
}

// HandleAdminIssueAPIKey issues a fresh kiosk API key for an account. The
// raw key is returned exactly once; only its hash is stored.
func HandleAdminIssueAPIKey(c *fiber.Ctx) error {
	staff, err := findStaff(c)
	if staff == nil {
		return err
	}

	rawKey, hash, err := models.GenerateAPIKey()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to generate API key")
	}

	now := time.Now()
	staff.APIKeyHash = hash
	staff.APIKeyIssuedAt = &now
	staff.APIKeyRevokedAt = nil
	if err := repository.GetGlobalFactory().GetStaffRepository().Update(staff); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store API key")
	}

	log.Infof("[Admin] Issued API key for staff %s", staff.Email)
	return c.JSON(fiber.Map{
		"api_key":   rawKey,
		"issued_at": now.UTC().Format(time.RFC3339),
		"message":   "Store this key now, it will not be shown again",
	})
}

// HandleAdminRevokeAPIKey revokes an account's kiosk API key.
func HandleAdminRevokeAPIKey(c *fiber.Ctx) error {
	staff, err := findStaff(c)
	if staff == nil {
		return err
	}
	if staff.APIKeyHash == "" {
		return jsonError(c, fiber.StatusNotFound, "not_found", "No API key issued for this account")
	}

	now := time.Now()
	staff.APIKeyRevokedAt = &now
	if err := repository.GetGlobalFactory().GetStaffRepository().Update(staff); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to revoke API key")
	}

	log.Infof("[Admin] Revoked API key for staff %s", staff.Email)
	return c.JSON(fiber.Map{"message": "API key revoked"})
}

// HandleAdminStats returns the dashboard numbers: member counts, today's
// attendance, this month's revenue and memberships expiring within a week.
func HandleAdminStats(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory()
	now := time.Now().In(membership.BusinessZone())

	totalMembers, err := repos.GetMemberRepository().Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load member count")
	}
	activeMembers, err := repos.GetMemberRepository().CountByStatus(models.MEMBER_STATUS_ACTIVE)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load member count")
	}

	expiringSoon, err := repos.GetMemberRepository().CountExpiringBetween(now, now.AddDate(0, 0, 7))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load expiry count")
	}

	checkInsToday, err := repos.GetAttendanceRepository().CountByDay(now)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load attendance count")
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, membership.BusinessZone())
	monthRevenue, err := repos.GetPaymentRepository().RevenueBetween(monthStart, now)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load revenue")
	}

	return c.JSON(fiber.Map{
		"members": fiber.Map{
			"total":         totalMembers,
			"active":        activeMembers,
			"expiring_week": expiringSoon,
		},
		"attendance": fiber.Map{
			"today": checkInsToday,
		},
		"revenue": fiber.Map{
			"month_cents": monthRevenue,
		},
	})
}
