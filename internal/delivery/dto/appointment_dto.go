package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
	Weekday   string    `json:"weekday" validate:"required,weekday"`
	VisitTime string    `json:"visit_time" validate:"required,hhmm"`
}

// Response DTOs

type AppointmentResponse struct {
	ID             uuid.UUID  `json:"id"`
	DoctorID       uuid.UUID  `json:"doctor_id"`
	UserID         uuid.UUID  `json:"user_id"`
	Weekday        string     `json:"weekday"`
	VisitTime      string     `json:"visit_time"`
	VisitTimestamp string     `json:"visit_timestamp"`
	VisitAt        time.Time  `json:"visit_at"`
	Price          int64      `json:"price"`
	Status         string     `json:"status"`
	Paid           bool       `json:"paid"`
	PaymentAt      *time.Time `json:"payment_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// BookingResponse is returned by Book. The appointment stays pending until paid.
type BookingResponse struct {
	Appointment     AppointmentResponse `json:"appointment"`
	PaymentRequired bool                `json:"payment_required"`
	Message         string              `json:"message"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
