package entity

import (
	"time"

	"github.com/google/uuid"
)

// Appointment event types, used as routing keys.
const (
	AppointmentEventCreated  = "appointment.created"
	AppointmentEventReserved = "appointment.reserved"
	AppointmentEventCanceled = "appointment.canceled"
	AppointmentEventDone     = "appointment.done"
)

// AppointmentEvent is published after an appointment transition commits.
type AppointmentEvent struct {
	Type           string            `json:"type"`
	AppointmentID  uuid.UUID         `json:"appointment_id"`
	DoctorID       uuid.UUID         `json:"doctor_id"`
	UserID         uuid.UUID         `json:"user_id"`
	VisitTimestamp string            `json:"visit_timestamp"`
	Price          int64             `json:"price"`
	Status         AppointmentStatus `json:"status"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

// NewAppointmentEvent snapshots a for publishing.
func NewAppointmentEvent(eventType string, a *Appointment, at time.Time) AppointmentEvent {
	return AppointmentEvent{
		Type:           eventType,
		AppointmentID:  a.ID,
		DoctorID:       a.DoctorID,
		UserID:         a.UserID,
		VisitTimestamp: a.VisitTimestamp,
		Price:          a.Price,
		Status:         a.Status,
		OccurredAt:     at,
	}
}
