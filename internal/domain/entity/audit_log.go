package entity

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// AuditLog is one committed state change. Metadata holds the old and new values.
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Entity    string     `gorm:"type:varchar(50);not null;default:'';index:idx_audit_logs_entity" json:"entity"`
	EntityID  string     `gorm:"type:varchar(100);not null;default:'';index:idx_audit_logs_entity" json:"entity_id"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

// AuditLogFilter narrows an audit trail query. Zero fields match everything.
type AuditLogFilter struct {
	UserID   *uuid.UUID
	Action   string
	Entity   string
	EntityID string
	Limit    int
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Audit actions
const (
	AuditActionSlotCreate          = "slot.create"
	AuditActionSlotUpdate          = "slot.update"
	AuditActionSlotDelete          = "slot.delete"
	AuditActionAppointmentCreate   = "appointment.create"
	AuditActionAppointmentPay      = "appointment.pay"
	AuditActionAppointmentCancel   = "appointment.cancel"
	AuditActionAppointmentComplete = "appointment.complete"
	AuditActionWalletCharge        = "wallet.charge"
	AuditActionDoctorStatus        = "doctor.status"
	AuditActionDoctorAvailability  = "doctor.availability"
)
