package usecase

import (
	"context"

	"doctor-booking/config"
	"doctor-booking/internal/converter"
	"doctor-booking/internal/delivery/dto"
	"doctor-booking/internal/domain/entity"
	"doctor-booking/internal/domain/repository"
	"doctor-booking/internal/service"
	"doctor-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidChargeAmount  = apperror.New(apperror.KindInvalidInput, "charge amount is below the minimum")
	ErrBalanceLimitExceeded = apperror.New(apperror.KindInvalidInput, "wallet balance limit exceeded")
)

type WalletUsecase interface {
	ChargeWallet(ctx context.Context, userID uuid.UUID, req *dto.ChargeWalletRequest) (*dto.WalletResponse, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*dto.WalletResponse, error)
}

type walletUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	cfg          config.BookingConfig
	auditService service.AuditService
	userRepo     repository.UserRepository
}

func NewWalletUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.BookingConfig,
	auditService service.AuditService,
	userRepo repository.UserRepository,
) WalletUsecase {
	return &walletUsecase{
		db:           db,
		log:          log,
		cfg:          cfg,
		auditService: auditService,
		userRepo:     userRepo,
	}
}

// ChargeWallet credits the wallet. The amount must exceed the configured minimum.
func (u *walletUsecase) ChargeWallet(ctx context.Context, userID uuid.UUID, req *dto.ChargeWalletRequest) (*dto.WalletResponse, error) {
	if req.Amount <= u.cfg.MinWalletCharge {
		return nil, ErrInvalidChargeAmount
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.userRepo.Credit(tx, userID, req.Amount)
	if err != nil {
		u.log.Warnf("Failed to credit user %s: %+v", userID, err)
		return nil, storageError(err)
	}

	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, storageError(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if affected == 0 {
		return nil, ErrBalanceLimitExceeded
	}

	if err := u.auditService.Record(tx, service.AuditEntry{
		ActorID:  &userID,
		Action:   entity.AuditActionWalletCharge,
		Entity:   "user",
		EntityID: userID.String(),
		Old:      user.Balance - req.Amount,
		New:      user.Balance,
	}); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Wallet charged: user=%s, amount=%d, balance=%d", userID, req.Amount, user.Balance)
	return converter.UserToWalletResponse(user), nil
}

func (u *walletUsecase) GetBalance(ctx context.Context, userID uuid.UUID) (*dto.WalletResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, storageError(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToWalletResponse(user), nil
}
