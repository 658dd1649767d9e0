package repository

import (
	"doctor-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	// Debit subtracts amount only if the balance covers it. Returns affected rows.
	Debit(db *gorm.DB, id uuid.UUID, amount int64) (int64, error)
	// Credit adds amount unless the balance would overflow. Returns affected rows.
	Credit(db *gorm.DB, id uuid.UUID, amount int64) (int64, error)
}
