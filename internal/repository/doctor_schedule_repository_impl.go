package repository

import (
	"errors"
	"sort"

	"doctor-booking/internal/domain/entity"
	domainRepo "doctor-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorScheduleRepository struct{}

func NewDoctorScheduleRepository() domainRepo.DoctorScheduleRepository {
	return &doctorScheduleRepository{}
}

func (r *doctorScheduleRepository) Create(db *gorm.DB, schedule *entity.DoctorSchedule) error {
	if schedule.Version == 0 {
		schedule.Version = 1
	}
	return db.Omit("Doctor").Create(schedule).Error
}

func (r *doctorScheduleRepository) FindByDoctorAndWeekday(db *gorm.DB, doctorID uuid.UUID, weekday entity.Weekday) (*entity.DoctorSchedule, error) {
	var schedule entity.DoctorSchedule
	err := db.Where("doctor_id = ? AND weekday = ?", doctorID, string(weekday)).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

// FindByDoctorID returns the doctor's buckets in business-week order.
func (r *doctorScheduleRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorSchedule, error) {
	var schedules []entity.DoctorSchedule
	err := db.Where("doctor_id = ?", doctorID).Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	sort.SliceStable(schedules, func(i, j int) bool {
		return schedules[i].Weekday.Position() < schedules[j].Weekday.Position()
	})
	return schedules, nil
}

func (r *doctorScheduleRepository) UpdateSlots(db *gorm.DB, schedule *entity.DoctorSchedule) (int64, error) {
	result := db.Model(&entity.DoctorSchedule{}).
		Where("id = ? AND version = ?", schedule.ID, schedule.Version).
		Updates(map[string]interface{}{
			"slots":   schedule.Slots,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		schedule.Version++
	}
	return result.RowsAffected, nil
}

func (r *doctorScheduleRepository) Delete(db *gorm.DB, schedule *entity.DoctorSchedule) (int64, error) {
	result := db.Where("id = ? AND version = ?", schedule.ID, schedule.Version).Delete(&entity.DoctorSchedule{})
	return result.RowsAffected, result.Error
}
