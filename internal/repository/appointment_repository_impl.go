package repository

import (
	"errors"
	"time"

	"doctor-booking/internal/domain/entity"
	domainRepo "doctor-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("doctor_id = ?", doctorID).
		Order("visit_at ASC, created_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByStatus(db *gorm.DB, status entity.AppointmentStatus) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("status = ?", string(status)).
		Order("visit_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorAndVisit(db *gorm.DB, doctorID uuid.UUID, visitTimestamp string, statuses ...entity.AppointmentStatus) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Where("doctor_id = ? AND visit_timestamp = ?", doctorID, visitTimestamp)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(statuses))
	}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByUserAndVisit(db *gorm.DB, userID uuid.UUID, visitTimestamp string, statuses ...entity.AppointmentStatus) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Where("user_id = ? AND visit_timestamp = ?", userID, visitTimestamp)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(statuses))
	}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Reserve(db *gorm.DB, id uuid.UUID, paidAt time.Time) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, string(entity.AppointmentStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entity.AppointmentStatusReserved),
			"paid":       true,
			"payment_at": paidAt,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Cancel(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, string(entity.AppointmentStatusReserved)).
		Updates(map[string]interface{}{
			"status":     string(entity.AppointmentStatusCanceled),
			"paid":       false,
			"payment_at": nil,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Complete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status IN ?", id, []string{
			string(entity.AppointmentStatusPending),
			string(entity.AppointmentStatusReserved),
		}).
		Update("status", string(entity.AppointmentStatusDone))
	return result.RowsAffected, result.Error
}

func statusStrings(statuses []entity.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
