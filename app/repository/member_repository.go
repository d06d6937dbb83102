package repository

import (
	"strings"
	"time"

	"github.com/RamilOcampo/GymDesk/app/models"
	"gorm.io/gorm"
)

// memberRepository implements the MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository instance
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member in the database
func (r *memberRepository) Create(member *models.Member) error {
	return r.db.Create(member).Error
}

// GetByID retrieves a member by their ID
func (r *memberRepository) GetByID(id uint) (*models.Member, error) {
	var member models.Member
	err := r.db.First(&member, id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByCode retrieves a member by their member code
func (r *memberRepository) GetByCode(code string) (*models.Member, error) {
	var member models.Member
	err := r.db.Where("member_code = ?", models.NormalizeCode(code)).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update updates an existing member in the database
func (r *memberRepository) Update(member *models.Member) error {
	return r.db.Save(member).Error
}

// UpdateEntitlements writes the denormalized expiry columns without touching
// the rest of the row.
func (r *memberRepository) UpdateEntitlements(id uint, membershipEnd, coachEnd *time.Time) error {
	return r.db.Model(&models.Member{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"membership_end": membershipEnd,
			"coach_end":      coachEnd,
		}).Error
}

// Delete soft-deletes a member by their ID
func (r *memberRepository) Delete(id uint) error {
	return r.db.Delete(&models.Member{}, id).Error
}

// List retrieves members with pagination
func (r *memberRepository) List(offset, limit int) ([]models.Member, error) {
	var members []models.Member
	err := r.db.Order("last_name ASC, first_name ASC").Offset(offset).Limit(limit).Find(&members).Error
	return members, err
}

// Count returns the total number of members
func (r *memberRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).Count(&count).Error
	return count, err
}

// Search finds members by code, name, email or phone
func (r *memberRepository) Search(query string) ([]models.Member, error) {
	var members []models.Member
	like := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where(
		"member_code LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone LIKE ?",
		like, like, like, like, like,
	).Order("last_name ASC").Limit(50).Find(&members).Error
	return members, err
}

// CountByStatus returns the number of members with the given status
func (r *memberRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountExpiringBetween counts members whose membership ends inside the window
func (r *memberRepository) CountExpiringBetween(from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).
		Where("membership_end IS NOT NULL AND membership_end BETWEEN ? AND ?", from, to).
		Count(&count).Error
	return count, err
}
