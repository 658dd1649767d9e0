package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type AddSlotRequest struct {
	DoctorID  uuid.UUID `json:"-"`
	Weekday   string    `json:"-" validate:"required,weekday"`
	VisitTime string    `json:"visit_time" validate:"required,hhmm"`
	Price     int64     `json:"price" validate:"required,gt=0"`
}

// UpdateSlotRequest replaces the slot at OldTime. Omitted fields keep their value.
type UpdateSlotRequest struct {
	DoctorID  uuid.UUID `json:"-"`
	Weekday   string    `json:"-" validate:"required,weekday"`
	OldTime   string    `json:"-" validate:"required,hhmm"`
	VisitTime *string   `json:"visit_time,omitempty" validate:"omitempty,hhmm"`
	Price     *int64    `json:"price,omitempty" validate:"omitempty,gt=0"`
}

type DeleteSlotRequest struct {
	DoctorID  uuid.UUID `json:"-"`
	Weekday   string    `json:"-" validate:"required,weekday"`
	VisitTime string    `json:"-" validate:"required,hhmm"`
}

// Response DTOs

type SlotResponse struct {
	VisitTime string `json:"visit_time"`
	Price     int64  `json:"price"`
}

type WeekdayScheduleResponse struct {
	Weekday string         `json:"weekday"`
	Details []SlotResponse `json:"details"`
}

type DoctorScheduleResponse struct {
	DoctorID uuid.UUID                 `json:"doctor_id"`
	Days     []WeekdayScheduleResponse `json:"days"`
}
