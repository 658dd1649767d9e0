package repository

import (
	"errors"
	"time"

	"doctor-booking/internal/domain/entity"
	domainRepo "doctor-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit("Schedules").Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.DoctorStatus, reason string, checkedAt time.Time) (int64, error) {
	result := db.Model(&entity.Doctor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            status,
			"reason":            reason,
			"status_checked_at": checkedAt,
		})
	return result.RowsAffected, result.Error
}

// UpdateAvailability uses a column update so that false is written too.
func (r *doctorRepository) UpdateAvailability(db *gorm.DB, id uuid.UUID, available bool) (int64, error) {
	result := db.Model(&entity.Doctor{}).
		Where("id = ?", id).
		Update("available", available)
	return result.RowsAffected, result.Error
}
