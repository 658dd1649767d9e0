package repository

import (
	"time"

	"doctor-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.DoctorStatus, reason string, checkedAt time.Time) (int64, error)
	UpdateAvailability(db *gorm.DB, id uuid.UUID, available bool) (int64, error)
}
