package repository

import (
	"strings"

	"github.com/RamilOcampo/GymDesk/app/models"
	"gorm.io/gorm"
)

// staffRepository implements the StaffRepository interface
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository instance
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

// Create creates a new staff account in the database
func (r *staffRepository) Create(staff *models.Staff) error {
	return r.db.Create(staff).Error
}

// GetByID retrieves a staff account by its ID
func (r *staffRepository) GetByID(id uint) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.First(&staff, id).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetByEmail retrieves a staff account by its email address
func (r *staffRepository) GetByEmail(email string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.Where("email = ?", strings.TrimSpace(email)).First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetByAPIKeyHash resolves an active kiosk API key hash to its staff account.
func (r *staffRepository) GetByAPIKeyHash(hash string) (*models.Staff, error) {
	trimmed := strings.TrimSpace(hash)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var staff models.Staff
	err := r.db.Where("api_key_hash = ? AND api_key_hash <> '' AND api_key_revoked_at IS NULL", trimmed).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// Update updates an existing staff account in the database
func (r *staffRepository) Update(staff *models.Staff) error {
	return r.db.Save(staff).Error
}

// Delete soft-deletes a staff account by its ID
func (r *staffRepository) Delete(id uint) error {
	return r.db.Delete(&models.Staff{}, id).Error
}

// List retrieves staff accounts with pagination
func (r *staffRepository) List(offset, limit int) ([]models.Staff, error) {
	var staff []models.Staff
	err := r.db.Order("name ASC").Offset(offset).Limit(limit).Find(&staff).Error
	return staff, err
}

// Count returns the total number of staff accounts
func (r *staffRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Staff{}).Count(&count).Error
	return count, err
}
