package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	WINDOW_NONE     = ""
	WINDOW_OFF_PEAK = "offpeak"
	WINDOW_DAILY    = "daily"
)

// PricingRule is one catalog product, keyed by its particulars name. The
// category flags drive the entitlement engine: the membership/subscription
// flags mark term products that extend an expiry, the access flags mark
// walk-in products that conflict with an already active entitlement.
type PricingRule struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Particulars         string         `gorm:"uniqueIndex;type:varchar(150)" json:"particulars" validate:"required,min=2,max=150"`
	SKU                 string         `gorm:"type:varchar(50);index" json:"sku" validate:"required,max=50"`
	PriceCents          int64          `gorm:"not null;default:0" json:"price_cents" validate:"gte=0"`
	IsGymMembership     bool           `gorm:"default:false" json:"is_gym_membership"`
	IsCoachSubscription bool           `gorm:"default:false" json:"is_coach_subscription"`
	GymAccess           bool           `gorm:"default:false" json:"gym_access"`
	CoachAccess         bool           `gorm:"default:false" json:"coach_access"`
	ValidityDays        int            `gorm:"default:0" json:"validity_days" validate:"gte=0"`
	TimeWindow          string         `gorm:"type:varchar(20);default:''" json:"time_window" validate:"oneof='' offpeak daily"`
	Discounted          bool           `gorm:"default:false" json:"discounted"`
	Active              bool           `gorm:"default:true" json:"active"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *PricingRule) Validate() error {
	v := validator.New()

	return v.Struct(r)
}

func (r *PricingRule) BeforeSave(tx *gorm.DB) error {
	r.TimeWindow = strings.ToLower(strings.TrimSpace(r.TimeWindow))
	return nil
}
