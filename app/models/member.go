package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	MEMBER_STATUS_ACTIVE   = "active"
	MEMBER_STATUS_INACTIVE = "inactive"
	MEMBER_STATUS_DISABLED = "disabled"
)

// Member is a gym member record. MembershipEnd and CoachEnd are denormalized
// copies of the entitlement engine's output, refreshed on every payment and
// check-in so list views don't have to re-derive them.
type Member struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	MemberCode     string         `gorm:"uniqueIndex;type:varchar(50)" json:"member_code" validate:"required,min=2,max=50"`
	FirstName      string         `gorm:"type:varchar(100)" json:"first_name" validate:"required,min=1,max=100"`
	LastName       string         `gorm:"type:varchar(100)" json:"last_name" validate:"required,min=1,max=100"`
	Email          string         `gorm:"type:varchar(200);default:null" json:"email" validate:"omitempty,email,max=200"`
	Phone          string         `gorm:"type:varchar(30);default:null" json:"phone" validate:"max=30"`
	BirthDate      *time.Time     `gorm:"type:date;default:null" json:"birth_date"`
	Student        bool           `gorm:"default:false" json:"student"`
	Status         string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	MembershipEnd  *time.Time     `gorm:"type:date;default:null;index" json:"membership_end"`
	CoachEnd       *time.Time     `gorm:"type:date;default:null" json:"coach_end"`
	PhotoPath      string         `gorm:"type:varchar(255);default:null" json:"photo_path"`
	PhotoThumbPath string         `gorm:"type:varchar(255);default:null" json:"photo_thumb_path"`
	Notes          string         `gorm:"type:text;default:null" json:"notes" validate:"max=2000"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Member) Validate() error {
	v := validator.New()

	return v.Struct(m)
}

// FullName returns the display name used on receipts and the attendance log.
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// NormalizeCode canonicalizes a member code the way payment records store it.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func (m *Member) BeforeSave(tx *gorm.DB) error {
	m.MemberCode = NormalizeCode(m.MemberCode)
	return nil
}
