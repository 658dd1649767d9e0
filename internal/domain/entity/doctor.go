package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DoctorStatus is the review state of a doctor's registration.
type DoctorStatus string

const (
	DoctorStatusPending  DoctorStatus = "pending"
	DoctorStatusAccepted DoctorStatus = "accepted"
	DoctorStatusRejected DoctorStatus = "rejected"
)

func (s DoctorStatus) IsValid() bool {
	switch s {
	case DoctorStatusPending, DoctorStatusAccepted, DoctorStatusRejected:
		return true
	}
	return false
}

// Doctor is owned by doctor management; the booking core only reads its
// eligibility flags.
type Doctor struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	FullName        string       `gorm:"type:varchar(255);not null" json:"full_name"`
	Specialization  string       `gorm:"type:varchar(100);index" json:"specialization"`
	Status          DoctorStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Available       bool         `gorm:"not null" json:"available"`
	Reason          string       `gorm:"type:text" json:"reason,omitempty"`
	StatusCheckedAt *time.Time   `json:"status_checked_at,omitempty"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Schedules []DoctorSchedule `gorm:"foreignKey:DoctorID" json:"schedules,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DoctorStatusPending
	}
	return nil
}

// CanReceiveAppointments checks the doctor is accepted and currently available.
func (d *Doctor) CanReceiveAppointments() bool {
	return d.Status == DoctorStatusAccepted && d.Available
}
