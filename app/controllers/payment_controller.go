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

type purchaseRequest struct {
	MemberCode  string `json:"member_code"`
	Particulars string `json:"particulars"`
	// StartDate optionally backdates or postdates the term start (YYYY-MM-DD).
	StartDate string `json:"start_date"`
}

func paymentResponse(p *models.Payment) fiber.Map {
	return fiber.Map{
		"id":                p.ID,
		"receipt_no":        p.ReceiptNo,
		"member_code":       p.MemberCode,
		"particulars":       p.Particulars,
		"amount_cents":      p.AmountCents,
		"free_of_charge":    p.FreeOfCharge,
		"gym_valid_until":   formatDayPtr(p.GymValidUntil),
		"coach_valid_until": formatDayPtr(p.CoachValidUntil),
		"valid_until":       formatDayPtr(p.ValidUntil),
		"paid_at":           p.PaidAt.UTC().Format(time.RFC3339),
		"staff_id":          p.StaffID,
	}
}

func mirrorPayment(p *models.Payment) {
	mirror.Enqueue(mirror.JobTypeMirrorPayment, mirror.CollectionPayments, p.ReceiptNo, map[string]any{
		"receiptNo":       p.ReceiptNo,
		"memberId":        p.MemberCode,
		"particulars":     p.Particulars,
		"amountCents":     p.AmountCents,
		"freeOfCharge":    p.FreeOfCharge,
		"gymValidUntil":   formatDayPtr(p.GymValidUntil),
		"coachValidUntil": formatDayPtr(p.CoachValidUntil),
		"validUntil":      formatDayPtr(p.ValidUntil),
		"date":            p.PaidAt.UTC().Format(time.RFC3339),
	})
}

// HandleCreatePayment sells one catalog product to a member. The purchase is
// first validated against the member's current entitlements, then priced
// (loyalty promo applied), then the new end dates are computed and the
// payment persisted. A rejected purchase returns 422 with the reason.
func HandleCreatePayment(c *fiber.Ctx) error {
	var req purchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.MemberCode == "" || req.Particulars == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "member_code and particulars are required")
	}

	repos := repository.GetGlobalFactory()

	member, err := repos.GetMemberRepository().GetByCode(models.NormalizeCode(req.MemberCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Member not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load member")
	}
	if member.Status == models.MEMBER_STATUS_DISABLED {
		return jsonError(c, fiber.StatusUnprocessableEntity, "rejected", "Member account is disabled")
	}

	rule, err := repos.GetPricingRuleRepository().GetByParticulars(req.Particulars)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Unknown catalog item")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load catalog item")
	}
	if !rule.Active {
		return jsonError(c, fiber.StatusUnprocessableEntity, "rejected", "Catalog item is no longer offered")
	}

	now := time.Now()
	status, records, err := resolveMemberStatus(member, now)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to resolve member status")
	}

	product := membership.Product{
		SKU:                 rule.SKU,
		Particulars:         rule.Particulars,
		IsGymMembership:     rule.IsGymMembership,
		IsCoachSubscription: rule.IsCoachSubscription,
		GymAccess:           rule.GymAccess,
		CoachAccess:         rule.CoachAccess,
		OffPeak:             rule.TimeWindow == models.WINDOW_OFF_PEAK,
		Daily:               rule.TimeWindow == models.WINDOW_DAILY,
		Discounted:          rule.Discounted,
		ValidityDays:        rule.ValidityDays,
	}
	buyer := membership.Buyer{Student: member.Student, BirthDate: member.BirthDate}

	if err := membership.ValidatePurchase(status, buyer, product, now); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "rejected", err.Error())
	}

	payment := &models.Payment{
		MemberID:    member.ID,
		MemberCode:  member.MemberCode,
		Particulars: rule.Particulars,
		AmountCents: rule.PriceCents,
		PaidAt:      now,
		StaffID:     usercontext.GetStaffID(c),
	}

	if membership.LoyaltyFreeApplies(records, rule.Particulars, now) {
		payment.AmountCents = 0
		payment.FreeOfCharge = true
		log.Infof("[Payment] Loyalty promo: %s free for member %s", rule.Particulars, member.MemberCode)
	}

	// Term products extend the matching entitlement; the new end date is
	// stamped onto the payment so future status derivations pick it up.
	if rule.IsGymMembership && rule.ValidityDays > 0 {
		end := membership.ComputeExtension(status.MembershipEnd, req.StartDate, rule.ValidityDays, now)
		if day, ok := membership.ParseDay(end); ok {
			payment.GymValidUntil = &day
		}
	}
	if rule.IsCoachSubscription && rule.ValidityDays > 0 {
		end := membership.ComputeExtension(status.CoachEnd, req.StartDate, rule.ValidityDays, now)
		if day, ok := membership.ParseDay(end); ok {
			payment.CoachValidUntil = &day
		}
	}
	// Day passes carry their own single-day expiry.
	if !rule.IsGymMembership && !rule.IsCoachSubscription && rule.ValidityDays > 0 {
		end := membership.ComputeExtension(nil, req.StartDate, rule.ValidityDays, now)
		if day, ok := membership.ParseDay(end); ok {
			payment.ValidUntil = &day
		}
	}

	if err := repos.GetPaymentRepository().Create(payment); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to record payment")
	}

	// Refresh the denormalized entitlement columns from the new history.
	newStatus, _, err := resolveMemberStatus(member, now)
	if err != nil {
		log.Warnf("[Payment] Failed to re-derive status for %s: %v", member.MemberCode, err)
	} else {
		syncEntitlements(member, newStatus)
	}

	mirrorPayment(payment)
	log.Infof("[Payment] %s bought %s for %d cents (receipt %s)",
		member.MemberCode, rule.Particulars, payment.AmountCents, payment.ReceiptNo)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment": paymentResponse(payment),
		"status":  statusResponse(newStatus),
	})
}

// HandleListPayments returns a page of payments, newest first.
func HandleListPayments(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repo := repository.GetGlobalFactory().GetPaymentRepository()

	payments, err := repo.List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list payments")
	}
	total, err := repo.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count payments")
	}

	items := make([]fiber.Map, 0, len(payments))
	for i := range payments {
		items = append(items, paymentResponse(&payments[i]))
	}
	return c.JSON(fiber.Map{"payments": items, "total": total})
}

// HandleGetPayment returns one payment by receipt number.
func HandleGetPayment(c *fiber.Ctx) error {
	receiptNo := c.Params("receipt")
	if receiptNo == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Receipt number missing")
	}

	payment, err := repository.GetGlobalFactory().GetPaymentRepository().GetByReceiptNo(receiptNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Payment not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load payment")
	}
	return c.JSON(paymentResponse(payment))
}

// HandleMemberPayments returns a member's full payment history.
func HandleMemberPayments(c *fiber.Ctx) error {
	member, err := findMember(c)
	if member == nil {
		return err
	}

	payments, err := repository.GetGlobalFactory().GetPaymentRepository().GetByMemberCode(member.MemberCode)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load payments")
	}

	items := make([]fiber.Map, 0, len(payments))
	for i := range payments {
		items = append(items, paymentResponse(&payments[i]))
	}
	return c.JSON(fiber.Map{"payments": items, "total": len(items)})
}
