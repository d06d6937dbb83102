package repository

import (
	"strings"

	"github.com/RamilOcampo/GymDesk/app/models"
	"gorm.io/gorm"
)

// pricingRuleRepository implements the PricingRuleRepository interface
type pricingRuleRepository struct {
	db *gorm.DB
}

// NewPricingRuleRepository creates a new pricing rule repository instance
func NewPricingRuleRepository(db *gorm.DB) PricingRuleRepository {
	return &pricingRuleRepository{db: db}
}

// Create creates a new pricing rule in the database
func (r *pricingRuleRepository) Create(rule *models.PricingRule) error {
	return r.db.Create(rule).Error
}

// GetByID retrieves a pricing rule by its ID
func (r *pricingRuleRepository) GetByID(id uint) (*models.PricingRule, error) {
	var rule models.PricingRule
	err := r.db.First(&rule, id).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// GetByParticulars retrieves a pricing rule by its particulars name,
// case-insensitively.
func (r *pricingRuleRepository) GetByParticulars(particulars string) (*models.PricingRule, error) {
	var rule models.PricingRule
	err := r.db.Where("LOWER(particulars) = ?", strings.ToLower(strings.TrimSpace(particulars))).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// GetBySKU retrieves a pricing rule by its SKU
func (r *pricingRuleRepository) GetBySKU(sku string) (*models.PricingRule, error) {
	var rule models.PricingRule
	err := r.db.Where("sku = ?", strings.TrimSpace(sku)).First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// GetActive retrieves all active catalog rules
func (r *pricingRuleRepository) GetActive() ([]models.PricingRule, error) {
	var rules []models.PricingRule
	err := r.db.Where("active = ?", true).Order("particulars ASC").Find(&rules).Error
	return rules, err
}

// GetAll retrieves the entire catalog
func (r *pricingRuleRepository) GetAll() ([]models.PricingRule, error) {
	var rules []models.PricingRule
	err := r.db.Order("particulars ASC").Find(&rules).Error
	return rules, err
}

// Update updates an existing pricing rule in the database
func (r *pricingRuleRepository) Update(rule *models.PricingRule) error {
	return r.db.Save(rule).Error
}

// Delete soft-deletes a pricing rule by its ID
func (r *pricingRuleRepository) Delete(id uint) error {
	return r.db.Delete(&models.PricingRule{}, id).Error
}
