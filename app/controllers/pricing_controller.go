package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/RamilOcampo/GymDesk/app/models"
	"github.com/RamilOcampo/GymDesk/app/repository"
)

type pricingRuleRequest struct {
	Particulars         string `json:"particulars"`
	SKU                 string `json:"sku"`
	PriceCents          int64  `json:"price_cents"`
	IsGymMembership     bool   `json:"is_gym_membership"`
	IsCoachSubscription bool   `json:"is_coach_subscription"`
	GymAccess           bool   `json:"gym_access"`
	CoachAccess         bool   `json:"coach_access"`
	ValidityDays        int    `json:"validity_days"`
	TimeWindow          string `json:"time_window"`
	Discounted          bool   `json:"discounted"`
	Active              *bool  `json:"active"`
}

// HandleListPricingRules returns the catalog. Staff see only active items,
// ?all=true includes retired ones.
func HandleListPricingRules(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetPricingRuleRepository()

	var (
		rules []models.PricingRule
		err   error
	)
	if c.Query("all") == "true" {
		rules, err = repo.GetAll()
	} else {
		rules, err = repo.GetActive()
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load catalog")
	}
	return c.JSON(fiber.Map{"items": rules, "total": len(rules)})
}

// HandleGetPricingRule returns one catalog item by ID.
func HandleGetPricingRule(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid catalog item ID")
	}

	rule, err := repository.GetGlobalFactory().GetPricingRuleRepository().GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Catalog item not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load catalog item")
	}
	return c.JSON(rule)
}

// HandleCreatePricingRule adds a catalog item.
func HandleCreatePricingRule(c *fiber.Ctx) error {
	var req pricingRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	rule := &models.PricingRule{
		Particulars:         req.Particulars,
		SKU:                 req.SKU,
		PriceCents:          req.PriceCents,
		IsGymMembership:     req.IsGymMembership,
		IsCoachSubscription: req.IsCoachSubscription,
		GymAccess:           req.GymAccess,
		CoachAccess:         req.CoachAccess,
		ValidityDays:        req.ValidityDays,
		TimeWindow:          req.TimeWindow,
		Discounted:          req.Discounted,
		Active:              true,
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}
	if err := rule.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	repo := repository.GetGlobalFactory().GetPricingRuleRepository()
	if existing, err := repo.GetByParticulars(req.Particulars); err == nil && existing != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "A catalog item with these particulars already exists")
	}
	if err := repo.Create(rule); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create catalog item")
	}

	log.Infof("[Pricing] Created catalog item %s (%s)", rule.Particulars, rule.SKU)
	return c.Status(fiber.StatusCreated).JSON(rule)
}

// HandleUpdatePricingRule updates a catalog item.
func HandleUpdatePricingRule(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid catalog item ID")
	}

	repo := repository.GetGlobalFactory().GetPricingRuleRepository()
	rule, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Catalog item not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load catalog item")
	}

	var req pricingRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.Particulars != "" {
		rule.Particulars = req.Particulars
	}
	if req.SKU != "" {
		rule.SKU = req.SKU
	}
	rule.PriceCents = req.PriceCents
	rule.IsGymMembership = req.IsGymMembership
	rule.IsCoachSubscription = req.IsCoachSubscription
	rule.GymAccess = req.GymAccess
	rule.CoachAccess = req.CoachAccess
	rule.ValidityDays = req.ValidityDays
	rule.TimeWindow = req.TimeWindow
	rule.Discounted = req.Discounted
	if req.Active != nil {
		rule.Active = *req.Active
	}
	if err := rule.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repo.Update(rule); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update catalog item")
	}
	return c.JSON(rule)
}

// HandleDeletePricingRule retires a catalog item. Soft delete keeps old
// receipts resolvable.
func HandleDeletePricingRule(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid catalog item ID")
	}
	if err := repository.GetGlobalFactory().GetPricingRuleRepository().Delete(uint(id)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete catalog item")
	}
	return c.JSON(fiber.Map{"message": "Catalog item deleted"})
}
