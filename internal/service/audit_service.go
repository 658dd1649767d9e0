package service

import (
	"doctor-booking/internal/domain/entity"
	"doctor-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditEntry describes one state change. Old is nil for creations, New for deletions.
type AuditEntry struct {
	ActorID  *uuid.UUID
	Action   string
	Entity   string
	EntityID string
	Old      interface{}
	New      interface{}
}

// AuditService writes audit rows through the caller's transaction so that the
// trail commits or rolls back with the change it describes.
type AuditService interface {
	Record(tx *gorm.DB, entry AuditEntry) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(tx *gorm.DB, entry AuditEntry) error {
	auditLog := &entity.AuditLog{
		UserID:   entry.ActorID,
		Action:   entry.Action,
		Entity:   entry.Entity,
		EntityID: entry.EntityID,
		Metadata: entity.JSON{
			"old_value": entry.Old,
			"new_value": entry.New,
		},
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log for %s: %+v", entry.Action, err)
		return err
	}

	return nil
}
