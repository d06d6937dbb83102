package repository

import (
	"time"

	"github.com/RamilOcampo/GymDesk/app/models"
	"gorm.io/gorm"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment in the database
func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByID retrieves a payment by its ID
func (r *paymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByReceiptNo retrieves a payment by its receipt number
func (r *paymentRepository) GetByReceiptNo(receiptNo string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("receipt_no = ?", receiptNo).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByMemberCode retrieves the full payment history for a member, newest
// first. The entitlement engine consumes this list.
func (r *paymentRepository) GetByMemberCode(code string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("member_code = ?", models.NormalizeCode(code)).
		Order("paid_at DESC").Find(&payments).Error
	return payments, err
}

// List retrieves payments with pagination
func (r *paymentRepository) List(offset, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Order("paid_at DESC").Offset(offset).Limit(limit).Find(&payments).Error
	return payments, err
}

// Count returns the total number of payments
func (r *paymentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).Count(&count).Error
	return count, err
}

// RevenueBetween sums payment amounts inside the window
func (r *paymentRepository) RevenueBetween(from, to time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&models.Payment{}).
		Where("paid_at BETWEEN ? AND ?", from, to).
		Select("COALESCE(SUM(amount_cents), 0)").Row().Scan(&total)
	return total, err
}
