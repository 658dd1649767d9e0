package repository

import (
	"time"

	"doctor-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error)
	FindByStatus(db *gorm.DB, status entity.AppointmentStatus) ([]entity.Appointment, error)
	FindByDoctorAndVisit(db *gorm.DB, doctorID uuid.UUID, visitTimestamp string, statuses ...entity.AppointmentStatus) ([]entity.Appointment, error)
	FindByUserAndVisit(db *gorm.DB, userID uuid.UUID, visitTimestamp string, statuses ...entity.AppointmentStatus) ([]entity.Appointment, error)

	// Transitions are conditional on the current status and return affected rows,
	// so a concurrent transition shows up as 0.
	Reserve(db *gorm.DB, id uuid.UUID, paidAt time.Time) (int64, error)
	Cancel(db *gorm.DB, id uuid.UUID) (int64, error)
	Complete(db *gorm.DB, id uuid.UUID) (int64, error)
}
