package usecase

import (
	"context"
	"strings"

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
	ErrInvalidDoctorStatus  = apperror.New(apperror.KindInvalidInput, "invalid doctor status")
	ErrRejectReasonRequired = apperror.New(apperror.KindInvalidInput, "a reason is required to reject a doctor")
)

// DoctorProfileUsecase manages the eligibility flags Book reads: review status
// and availability.
type DoctorProfileUsecase interface {
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	SetStatus(ctx context.Context, doctorID uuid.UUID, req *dto.SetDoctorStatusRequest) (*dto.DoctorResponse, error)
	SetAvailability(ctx context.Context, doctorID uuid.UUID, req *dto.SetDoctorAvailabilityRequest) (*dto.DoctorResponse, error)
}

type doctorProfileUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	clock        service.Clock
	auditService service.AuditService
	doctorRepo   repository.DoctorRepository
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clock service.Clock,
	auditService service.AuditService,
	doctorRepo repository.DoctorRepository,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:           db,
		log:          log,
		clock:        clock,
		auditService: auditService,
		doctorRepo:   doctorRepo,
	}
}

func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(u.db.WithContext(ctx), doctorID)
	if err != nil {
		return nil, err
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorProfileUsecase) SetStatus(ctx context.Context, doctorID uuid.UUID, req *dto.SetDoctorStatusRequest) (*dto.DoctorResponse, error) {
	status := entity.DoctorStatus(req.Status)
	if !status.IsValid() {
		return nil, ErrInvalidDoctorStatus
	}
	reason := strings.TrimSpace(req.Reason)
	if status == entity.DoctorStatusRejected && reason == "" {
		return nil, ErrRejectReasonRequired
	}
	if status != entity.DoctorStatusRejected {
		reason = ""
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.findDoctor(tx, doctorID)
	if err != nil {
		return nil, err
	}
	before := converter.DoctorToResponse(doctor)

	checkedAt := u.clock.Now().UTC()
	if _, err := u.doctorRepo.UpdateStatus(tx, doctorID, status, reason, checkedAt); err != nil {
		u.log.Warnf("Failed to update doctor %s status: %+v", doctorID, err)
		return nil, storageError(err)
	}
	doctor.Status = status
	doctor.Reason = reason
	doctor.StatusCheckedAt = &checkedAt

	if err := u.auditService.Record(tx, service.AuditEntry{
		ActorID:  actorFromContext(ctx),
		Action:   entity.AuditActionDoctorStatus,
		Entity:   "doctor",
		EntityID: doctorID.String(),
		Old:      before,
		New:      converter.DoctorToResponse(doctor),
	}); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Doctor status changed: id=%s, status=%s", doctorID, status)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorProfileUsecase) SetAvailability(ctx context.Context, doctorID uuid.UUID, req *dto.SetDoctorAvailabilityRequest) (*dto.DoctorResponse, error) {
	if req.Available == nil {
		return nil, apperror.New(apperror.KindInvalidInput, "available is required")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.findDoctor(tx, doctorID)
	if err != nil {
		return nil, err
	}
	before := converter.DoctorToResponse(doctor)

	if _, err := u.doctorRepo.UpdateAvailability(tx, doctorID, *req.Available); err != nil {
		u.log.Warnf("Failed to update doctor %s availability: %+v", doctorID, err)
		return nil, storageError(err)
	}
	doctor.Available = *req.Available

	if err := u.auditService.Record(tx, service.AuditEntry{
		ActorID:  actorFromContext(ctx),
		Action:   entity.AuditActionDoctorAvailability,
		Entity:   "doctor",
		EntityID: doctorID.String(),
		Old:      before,
		New:      converter.DoctorToResponse(doctor),
	}); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Doctor availability changed: id=%s, available=%t", doctorID, doctor.Available)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorProfileUsecase) findDoctor(db *gorm.DB, doctorID uuid.UUID) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, storageError(err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}
