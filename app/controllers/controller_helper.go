package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/RamilOcampo/GymDesk/app/models"
	"github.com/RamilOcampo/GymDesk/app/repository"
	"github.com/RamilOcampo/GymDesk/internal/pkg/membership"
)

// jsonError writes the standard error envelope used across the API.
func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// formatDayPtr renders a date pointer as a business-zone day string, the
// form entitlement dates travel in everywhere.
func formatDayPtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return membership.DayString(*t)
}

// parsePagination reads page/page_size query params with sane bounds.
func parsePagination(c *fiber.Ctx) (offset, limit int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.Query("page_size", "25"))
	if size < 1 {
		size = 25
	}
	if size > 200 {
		size = 200
	}
	return (page - 1) * size, size
}

// GetClientIP determines the actual client IP address considering proxies.
func GetClientIP(c *fiber.Ctx) string {
	if cfIP := c.Get("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	return c.IP()
}

// loadCatalogRules converts the pricing catalog into the classification
// rules the entitlement engine consumes.
func loadCatalogRules() ([]membership.Rule, error) {
	catalog, err := repository.GetGlobalFactory().GetPricingRuleRepository().GetAll()
	if err != nil {
		return nil, err
	}
	rules := make([]membership.Rule, 0, len(catalog))
	for _, row := range catalog {
		rules = append(rules, membership.Rule{
			Particulars:         row.Particulars,
			IsGymMembership:     row.IsGymMembership,
			IsCoachSubscription: row.IsCoachSubscription,
		})
	}
	return rules, nil
}

// paymentRecords converts stored payments into normalized engine records.
func paymentRecords(payments []models.Payment) []membership.Record {
	raws := make([]map[string]any, 0, len(payments))
	for i := range payments {
		raws = append(raws, payments[i].ToRaw())
	}
	return membership.NormalizeRecords(raws)
}

// resolveMemberStatus loads a member's payment history and folds it into the
// current entitlement picture. The records are returned too so callers can
// run further checks (loyalty counting) without a second load.
func resolveMemberStatus(member *models.Member, now time.Time) (membership.Status, []membership.Record, error) {
	repos := repository.GetGlobalFactory()

	payments, err := repos.GetPaymentRepository().GetByMemberCode(member.MemberCode)
	if err != nil {
		return membership.Status{}, nil, err
	}
	rules, err := loadCatalogRules()
	if err != nil {
		return membership.Status{}, nil, err
	}

	records := paymentRecords(payments)
	return membership.ResolveStatus(records, memberSubject(member), rules, now), records, nil
}

// memberSubject builds the engine's fallback snapshot for a member row.
// Subject.Status is a legacy membership-status signal and stays empty here:
// Member.Status is the account status (active/inactive/disabled accounts),
// not a membership claim, and a never-paid member must resolve as StateNone.
// Only the denormalized end date is carried as a last-resort fallback.
func memberSubject(member *models.Member) membership.Subject {
	return membership.Subject{
		ID:            member.MemberCode,
		MembershipEnd: member.MembershipEnd,
	}
}

// statusResponse is the JSON shape of an entitlement status.
func statusResponse(status membership.Status) fiber.Map {
	return fiber.Map{
		"membership_end":   formatDayPtr(status.MembershipEnd),
		"membership_state": string(status.MembershipState),
		"coach_end":        formatDayPtr(status.CoachEnd),
		"coach_active":     status.CoachActive,
	}
}
