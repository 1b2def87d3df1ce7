package models

import "time"

const MemberTable = "lib_members"

// Member covers both regular members and admins; IsAdmin picks the role.
// Exactly one of MemberID / AdmissionID / EmployeeID is set depending on how
// the account was registered (library card, student, staff).
type Member struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	UserFullName string `gorm:"size:255;not null" json:"userFullName"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	MobileNumber string `gorm:"size:30" json:"mobileNumber"`
	MemberID     string `gorm:"size:60;index" json:"memberId,omitempty"`
	AdmissionID  string `gorm:"size:60" json:"admissionId,omitempty"`
	EmployeeID   string `gorm:"size:60" json:"employeeId,omitempty"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"isAdmin"`

	// Points is carried for display only; nothing in the lifecycle mutates it.
	Points int64 `gorm:"not null;default:0" json:"points"`

	PasswordHash string `gorm:"size:100;not null" json:"-"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Member) TableName() string { return MemberTable }

// Code returns whichever identifying code the member registered with.
func (m *Member) Code() string {
	switch {
	case m.MemberID != "":
		return m.MemberID
	case m.AdmissionID != "":
		return m.AdmissionID
	case m.EmployeeID != "":
		return m.EmployeeID
	}
	return m.Email
}
