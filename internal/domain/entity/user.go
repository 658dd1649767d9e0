package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a patient account. Balance is a non-negative prepaid wallet in
// whole currency units.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoleID    int       `gorm:"not null;index" json:"role_id"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Mobile    string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"mobile"`
	Balance   int64     `gorm:"not null" json:"balance"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:UserID" json:"appointments,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.RoleID == 0 {
		u.RoleID = RoleIDPatient
	}
	return nil
}

func (u *User) CanAfford(price int64) bool {
	return u.Balance >= price
}
