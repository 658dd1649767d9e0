package dto

import (
	"time"

	"doctor-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

// AuditLogQuery is read from the query string of the audit trail listing.
type AuditLogQuery struct {
	UserID   *uuid.UUID `validate:"omitempty"`
	Action   string     `validate:"max=100"`
	Entity   string     `validate:"omitempty,oneof=doctor_schedule appointment user doctor"`
	EntityID string     `validate:"max=100"`
	Limit    int        `validate:"gte=0,lte=500"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64       `json:"id"`
	UserID    *uuid.UUID  `json:"user_id,omitempty"`
	Action    string      `json:"action"`
	Entity    string      `json:"entity"`
	EntityID  string      `json:"entity_id"`
	Metadata  entity.JSON `json:"metadata"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
