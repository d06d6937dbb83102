package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is one purchase event at the front desk. The category expiry
// columns carry the end dates the entitlement engine computed at purchase
// time and are the preferred source of truth when re-deriving status.
// RawJSON keeps the original row for payments imported from the legacy
// system, whose field names vary; the engine's alias resolver reads it.
type Payment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ReceiptNo       string         `gorm:"uniqueIndex;type:varchar(40)" json:"receipt_no"`
	MemberID        uint           `gorm:"index" json:"member_id"`
	MemberCode      string         `gorm:"type:varchar(50);index" json:"member_code" validate:"required"`
	Particulars     string         `gorm:"type:varchar(150)" json:"particulars" validate:"required,max=150"`
	AmountCents     int64          `gorm:"not null;default:0" json:"amount_cents" validate:"gte=0"`
	FreeOfCharge    bool           `gorm:"default:false" json:"free_of_charge"`
	GymValidUntil   *time.Time     `gorm:"type:date;default:null" json:"gym_valid_until"`
	CoachValidUntil *time.Time     `gorm:"type:date;default:null" json:"coach_valid_until"`
	ValidUntil      *time.Time     `gorm:"type:date;default:null" json:"valid_until"`
	PaidAt          time.Time      `gorm:"index" json:"paid_at"`
	StaffID         uint           `gorm:"index" json:"staff_id"`
	RawJSON         string         `gorm:"type:longtext;default:null" json:"-"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Payment) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ReceiptNo == "" {
		p.ReceiptNo = uuid.New().String()
	}
	p.MemberCode = NormalizeCode(p.MemberCode)
	return nil
}

// ToRaw flattens the payment into the key-value shape the entitlement engine
// normalizes. Legacy imports pass through their stored RawJSON untouched so
// historical aliases keep resolving.
func (p *Payment) ToRaw() map[string]any {
	if p.RawJSON != "" {
		var raw map[string]any
		if err := json.Unmarshal([]byte(p.RawJSON), &raw); err == nil {
			return raw
		}
	}
	raw := map[string]any{
		"memberId":    p.MemberCode,
		"particulars": p.Particulars,
		"date":        p.PaidAt,
	}
	if p.GymValidUntil != nil {
		raw["gymValidUntil"] = *p.GymValidUntil
	}
	if p.CoachValidUntil != nil {
		raw["coachValidUntil"] = *p.CoachValidUntil
	}
	if p.ValidUntil != nil {
		raw["validUntil"] = *p.ValidUntil
	}
	return raw
}
