package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending  AppointmentStatus = "pending"
	AppointmentStatusReserved AppointmentStatus = "reserved"
	AppointmentStatusDone     AppointmentStatus = "done"
	AppointmentStatusCanceled AppointmentStatus = "canceled"
)

// ParseAppointmentStatus returns the status named by s.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(s)
	switch status {
	case AppointmentStatusPending, AppointmentStatusReserved, AppointmentStatusDone, AppointmentStatusCanceled:
		return status, true
	}
	return "", false
}

// OccupyingStatuses hold a doctor's slot instant against other patients.
var OccupyingStatuses = []AppointmentStatus{AppointmentStatusReserved, AppointmentStatusDone}

// UserBlockingStatuses prevent the same patient from booking the instant again.
var UserBlockingStatuses = []AppointmentStatus{AppointmentStatusReserved, AppointmentStatusPending}

// Appointment is a concrete visit booked from a schedule slot. Rows are never
// deleted; cancellation is a terminal status.
type Appointment struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Weekday        Weekday           `gorm:"type:varchar(10);not null" json:"weekday"`
	VisitTime      string            `gorm:"type:varchar(5);not null" json:"visit_time"`
	VisitTimestamp string            `gorm:"type:varchar(20);not null;index" json:"visit_timestamp"`
	VisitAt        time.Time         `gorm:"not null" json:"visit_at"`
	Price          int64             `gorm:"not null" json:"price"`
	Status         AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Paid           bool              `gorm:"not null" json:"paid"`
	PaymentAt      *time.Time        `json:"payment_at,omitempty"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AppointmentStatusPending
	}
	return nil
}

func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

func (a *Appointment) IsReserved() bool {
	return a.Status == AppointmentStatusReserved
}

// CanComplete reports whether the appointment is still open.
func (a *Appointment) CanComplete() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusReserved
}

// Reserve marks the appointment paid at paidAt.
func (a *Appointment) Reserve(paidAt time.Time) {
	a.Status = AppointmentStatusReserved
	a.Paid = true
	a.PaymentAt = &paidAt
}

// Cancel releases the slot and clears the payment.
func (a *Appointment) Cancel() {
	a.Status = AppointmentStatusCanceled
	a.Paid = false
	a.PaymentAt = nil
}

func (a *Appointment) Complete() {
	a.Status = AppointmentStatusDone
}
