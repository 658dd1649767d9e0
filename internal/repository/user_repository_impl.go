package repository

import (
	"errors"
	"math"

	"doctor-booking/internal/domain/entity"
	domainRepo "doctor-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Omit("Appointments").Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Debit(db *gorm.DB, id uuid.UUID, amount int64) (int64, error) {
	result := db.Model(&entity.User{}).
		Where("id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	return result.RowsAffected, result.Error
}

func (r *userRepository) Credit(db *gorm.DB, id uuid.UUID, amount int64) (int64, error) {
	result := db.Model(&entity.User{}).
		Where("id = ? AND balance <= ?", id, math.MaxInt64-amount).
		Update("balance", gorm.Expr("balance + ?", amount))
	return result.RowsAffected, result.Error
}
