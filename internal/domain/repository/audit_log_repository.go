package repository

import (
	"doctor-booking/internal/domain/entity"

	"gorm.io/gorm"
)

// AuditLogRepository is append-only; rows are never updated or deleted.
type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindAll(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, error)
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
}
