package repository

import (
	"time"

	"github.com/RamilOcampo/GymDesk/app/models"
	"gorm.io/gorm"
)

// MemberRepository defines the interface for member-related database operations
type MemberRepository interface {
	Create(member *models.Member) error
	GetByID(id uint) (*models.Member, error)
	GetByCode(code string) (*models.Member, error)
	Update(member *models.Member) error
	UpdateEntitlements(id uint, membershipEnd, coachEnd *time.Time) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Member, error)
	Count() (int64, error)
	Search(query string) ([]models.Member, error)
	CountByStatus(status string) (int64, error)
	CountExpiringBetween(from, to time.Time) (int64, error)
}

// PaymentRepository defines the interface for payment-related database operations
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByReceiptNo(receiptNo string) (*models.Payment, error)
	GetByMemberCode(code string) ([]models.Payment, error)
	List(offset, limit int) ([]models.Payment, error)
	Count() (int64, error)
	RevenueBetween(from, to time.Time) (int64, error)
}

// PricingRuleRepository defines the interface for catalog operations
type PricingRuleRepository interface {
	Create(rule *models.PricingRule) error
	GetByID(id uint) (*models.PricingRule, error)
	GetByParticulars(particulars string) (*models.PricingRule, error)
	GetBySKU(sku string) (*models.PricingRule, error)
	GetActive() ([]models.PricingRule, error)
	GetAll() ([]models.PricingRule, error)
	Update(rule *models.PricingRule) error
	Delete(id uint) error
}

// AttendanceRepository defines the interface for check-in log operations
type AttendanceRepository interface {
	Create(attendance *models.Attendance) error
	GetByMemberID(memberID uint, offset, limit int) ([]models.Attendance, error)
	GetByDay(day time.Time) ([]models.Attendance, error)
	CountByDay(day time.Time) (int64, error)
	LastForMember(memberID uint) (*models.Attendance, error)
}

// StaffRepository defines the interface for staff account operations
type StaffRepository interface {
	Create(staff *models.Staff) error
	GetByID(id uint) (*models.Staff, error)
	GetByEmail(email string) (*models.Staff, error)
	GetByAPIKeyHash(hash string) (*models.Staff, error)
	Update(staff *models.Staff) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Staff, error)
	Count() (int64, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Member      MemberRepository
	Payment     PaymentRepository
	PricingRule PricingRuleRepository
	Attendance  AttendanceRepository
	Staff       StaffRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Member:      NewMemberRepository(db),
		Payment:     NewPaymentRepository(db),
		PricingRule: NewPricingRuleRepository(db),
		Attendance:  NewAttendanceRepository(db),
		Staff:       NewStaffRepository(db),
	}
}
