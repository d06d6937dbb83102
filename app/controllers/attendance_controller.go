package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/RamilOcampo/GymDesk/app/models"
	"github.com/RamilOcampo/GymDesk/app/repository"
	"github.com/RamilOcampo/GymDesk/internal/pkg/membership"
	"github.com/RamilOcampo/GymDesk/internal/pkg/mirror"
	"github.com/RamilOcampo/GymDesk/internal/pkg/usercontext"
)

type checkInRequest struct {
	MemberCode string `json:"member_code"`
}

func attendanceResponse(a *models.Attendance) fiber.Map {
	resp := fiber.Map{
		"id":            a.ID,
		"member_code":   a.MemberCode,
		"checked_in_at": a.CheckedInAt.UTC().Format(time.RFC3339),
		"source":        a.Source,
		"allowed":       a.Allowed,
	}
	if !a.Allowed {
		resp["deny_reason"] = a.DenyReason
	}
	return resp
}

func mirrorAttendance(a *models.Attendance) {
	mirror.Enqueue(mirror.JobTypeMirrorAttendance, mirror.CollectionAttendance, a.MemberCode+"-"+a.CheckedInAt.UTC().Format(time.RFC3339), map[string]any{
		"memberCode":  a.MemberCode,
		"checkedInAt": a.CheckedInAt.UTC().Format(time.RFC3339),
		"source":      a.Source,
		"allowed":     a.Allowed,
		"denyReason":  a.DenyReason,
	})
}

// PerformCheckIn gates a member through the door: entitlement status is
// re-derived from the payment history and the attempt is logged either way.
// Shared by the staff endpoint and the kiosk API.
func PerformCheckIn(c *fiber.Ctx, memberCode, source string, staffID *uint) error {
	repos := repository.GetGlobalFactory()

	member, err := repos.GetMemberRepository().GetByCode(models.NormalizeCode(memberCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Member not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load member")
	}

	now := time.Now()
	status, _, err := resolveMemberStatus(member, now)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to resolve member status")
	}
	syncEntitlements(member, status)

	attendance := &models.Attendance{
		MemberID:    member.ID,
		MemberCode:  member.MemberCode,
		CheckedInAt: now,
		Source:      source,
		StaffID:     staffID,
		Allowed:     true,
	}

	switch {
	case member.Status == models.MEMBER_STATUS_DISABLED:
		attendance.Allowed = false
		attendance.DenyReason = "member account is disabled"
	case status.MembershipState != membership.StateActive && !hasValidDayPass(member.MemberCode, now):
		attendance.Allowed = false
		attendance.DenyReason = "no active membership or day pass"
	}

	if err := repos.GetAttendanceRepository().Create(attendance); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to record check-in")
	}
	mirrorAttendance(attendance)

	if !attendance.Allowed {
		log.Infof("[Attendance] Denied %s via %s: %s", member.MemberCode, source, attendance.DenyReason)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":      "denied",
			"message":    attendance.DenyReason,
			"attendance": attendanceResponse(attendance),
			"status":     statusResponse(status),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attendance": attendanceResponse(attendance),
		"member": fiber.Map{
			"member_code": member.MemberCode,
			"full_name":   member.FullName(),
			"photo_path":  member.PhotoPath,
		},
		"status": statusResponse(status),
	})
}

// hasValidDayPass checks for a same-day pass purchase still in effect.
func hasValidDayPass(memberCode string, now time.Time) bool {
	payments, err := repository.GetGlobalFactory().GetPaymentRepository().GetByMemberCode(memberCode)
	if err != nil {
		return false
	}
	today := membership.DayString(now)
	for i := range payments {
		p := &payments[i]
		if p.GymValidUntil != nil || p.CoachValidUntil != nil {
			continue
		}
		if p.ValidUntil != nil && membership.DayString(*p.ValidUntil) >= today {
			return true
		}
	}
	return false
}

// HandleCheckIn records a front-desk check-in.
func HandleCheckIn(c *fiber.Ctx) error {
	var req checkInRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.MemberCode == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "member_code is required")
	}

	var staffID *uint
	if id := usercontext.GetStaffID(c); id != 0 {
		staffID = &id
	}
	return PerformCheckIn(c, req.MemberCode, models.ATTENDANCE_SOURCE_DESK, staffID)
}

// HandleListAttendance returns all check-ins for one day (default today).
func HandleListAttendance(c *fiber.Ctx) error {
	day := time.Now()
	if q := c.Query("day"); q != "" {
		parsed, ok := membership.ParseDay(q)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "day must be YYYY-MM-DD")
		}
		day = parsed
	}

	entries, err := repository.GetGlobalFactory().GetAttendanceRepository().GetByDay(day)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load attendance")
	}

	items := make([]fiber.Map, 0, len(entries))
	for i := range entries {
		items = append(items, attendanceResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{
		"day":        membership.DayString(day),
		"attendance": items,
		"total":      len(items),
	})
}

// HandleMemberAttendance returns a member's check-in history.
func HandleMemberAttendance(c *fiber.Ctx) error {
	member, err := findMember(c)
	if member == nil {
		return err
	}

	offset, limit := parsePagination(c)
	entries, err := repository.GetGlobalFactory().GetAttendanceRepository().GetByMemberID(member.ID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load attendance")
	}

	items := make([]fiber.Map, 0, len(entries))
	for i := range entries {
		items = append(items, attendanceResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"attendance": items, "total": len(items)})
}
