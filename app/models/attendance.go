package models

import "time"

const (
	ATTENDANCE_SOURCE_DESK  = "desk"
	ATTENDANCE_SOURCE_KIOSK = "kiosk"
)

// Attendance is one check-in attempt, allowed or not. Denied attempts are
// kept with their reason so the front desk can answer "why was I refused
// yesterday" without digging through payments.
type Attendance struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MemberID    uint      `gorm:"index" json:"member_id"`
	MemberCode  string    `gorm:"type:varchar(50);index" json:"member_code"`
	CheckedInAt time.Time `gorm:"index" json:"checked_in_at"`
	Source      string    `gorm:"type:varchar(20);default:'desk'" json:"source"`
	Allowed     bool      `gorm:"default:true" json:"allowed"`
	DenyReason  string    `gorm:"type:varchar(255);default:null" json:"deny_reason,omitempty"`
	StaffID     *uint     `gorm:"default:null" json:"staff_id,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
