package repository

import (
	"time"

	"github.com/RamilOcampo/GymDesk/app/models"
	"github.com/RamilOcampo/GymDesk/internal/pkg/membership"
	"gorm.io/gorm"
)

// attendanceRepository implements the AttendanceRepository interface
type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository instance
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create creates a new attendance entry in the database
func (r *attendanceRepository) Create(attendance *models.Attendance) error {
	return r.db.Create(attendance).Error
}

// GetByMemberID retrieves a member's check-in history, newest first
func (r *attendanceRepository) GetByMemberID(memberID uint, offset, limit int) ([]models.Attendance, error) {
	var entries []models.Attendance
	err := r.db.Where("member_id = ?", memberID).
		Order("checked_in_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

// GetByDay retrieves all check-ins on the given business-zone calendar day
func (r *attendanceRepository) GetByDay(day time.Time) ([]models.Attendance, error) {
	from, to := dayBounds(day)
	var entries []models.Attendance
	err := r.db.Where("checked_in_at >= ? AND checked_in_at < ?", from, to).
		Order("checked_in_at ASC").Find(&entries).Error
	return entries, err
}

// CountByDay counts allowed check-ins on the given business-zone calendar day
func (r *attendanceRepository) CountByDay(day time.Time) (int64, error) {
	from, to := dayBounds(day)
	var count int64
	err := r.db.Model(&models.Attendance{}).
		Where("checked_in_at >= ? AND checked_in_at < ? AND allowed = ?", from, to, true).
		Count(&count).Error
	return count, err
}

// LastForMember returns the most recent check-in attempt for a member
func (r *attendanceRepository) LastForMember(memberID uint) (*models.Attendance, error) {
	var entry models.Attendance
	err := r.db.Where("member_id = ?", memberID).
		Order("checked_in_at DESC").First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// dayBounds returns the half-open instant range covering the business-zone
// day that contains t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	zone := membership.BusinessZone()
	in := t.In(zone)
	from := time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, zone)
	return from, from.AddDate(0, 0, 1)
}
