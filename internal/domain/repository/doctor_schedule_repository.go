package repository

import (
	"doctor-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorScheduleRepository interface {
	Create(db *gorm.DB, schedule *entity.DoctorSchedule) error
	FindByDoctorAndWeekday(db *gorm.DB, doctorID uuid.UUID, weekday entity.Weekday) (*entity.DoctorSchedule, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorSchedule, error)
	// UpdateSlots writes schedule.Slots if the stored version still matches
	// schedule.Version, then bumps the version. Returns affected rows.
	UpdateSlots(db *gorm.DB, schedule *entity.DoctorSchedule) (int64, error)
	Delete(db *gorm.DB, schedule *entity.DoctorSchedule) (int64, error)
}
