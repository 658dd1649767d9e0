package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SetDoctorStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending accepted rejected"`
	Reason string `json:"reason" validate:"max=1000"`
}

type SetDoctorAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// Response DTOs

type DoctorResponse struct {
	ID              uuid.UUID  `json:"id"`
	FullName        string     `json:"full_name"`
	Specialization  string     `json:"specialization"`
	Status          string     `json:"status"`
	Available       bool       `json:"available"`
	Active          bool       `json:"active"`
	Reason          string     `json:"reason,omitempty"`
	StatusCheckedAt *time.Time `json:"status_checked_at,omitempty"`
}
