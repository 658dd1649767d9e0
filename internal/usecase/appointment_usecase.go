package usecase

import (
	"context"
	"fmt"

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
	ErrAppointmentNotFound = apperror.New(apperror.KindNotFound, "appointment not found")
	ErrOwnershipMismatch   = apperror.New(apperror.KindForbidden, "appointment does not belong to you")
	ErrInvalidTransition   = apperror.New(apperror.KindInvalidTransition, "appointment cannot move to the requested state")
	ErrInvalidStatus       = apperror.New(apperror.KindInvalidInput, "invalid appointment status")
)

// AppointmentUsecase is the appointment state machine:
// pending -> reserved (Pay) -> done (Complete), reserved -> canceled (Cancel),
// and pending -> done for visits settled outside the wallet.
type AppointmentUsecase interface {
	Pay(ctx context.Context, appointmentID, userID uuid.UUID) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, appointmentID, userID uuid.UUID) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error)
	ListForUser(ctx context.Context, userID uuid.UUID) (*dto.AppointmentListResponse, error)
	ListByStatus(ctx context.Context, status string) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	clock           service.Clock
	locker          service.KeyedLocker
	auditService    service.AuditService
	eventPublisher  service.EventPublisher
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clock service.Clock,
	locker service.KeyedLocker,
	auditService service.AuditService,
	eventPublisher service.EventPublisher,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		clock:           clock,
		locker:          locker,
		auditService:    auditService,
		eventPublisher:  eventPublisher,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
	}
}

func appointmentLockKey(appointmentID uuid.UUID) string {
	return fmt.Sprintf("appointment:%s", appointmentID)
}

// Pay debits the appointment price and reserves the visit instant in one
// transaction. Only one appointment per doctor and instant can be reserved.
func (u *appointmentUsecase) Pay(ctx context.Context, appointmentID, userID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findOwned(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}

	unlock, err := u.locker.Lock(ctx, appointmentLockKey(appointmentID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	unlockVisit, err := u.locker.Lock(ctx, bookingLockKey(appointment.DoctorID, appointment.VisitTimestamp))
	if err != nil {
		return nil, err
	}
	defer unlockVisit()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err = u.reload(tx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.IsPending() {
		return nil, ErrInvalidTransition
	}

	taken, err := u.appointmentRepo.FindByDoctorAndVisit(tx, appointment.DoctorID, appointment.VisitTimestamp, entity.OccupyingStatuses...)
	if err != nil {
		u.log.Warnf("Failed to check doctor appointments: %+v", err)
		return nil, storageError(err)
	}
	if len(taken) > 0 {
		return nil, ErrSlotAlreadyTaken
	}

	affected, err := u.userRepo.Debit(tx, userID, appointment.Price)
	if err != nil {
		u.log.Warnf("Failed to debit user %s: %+v", userID, err)
		return nil, storageError(err)
	}
	if affected == 0 {
		return nil, u.debitFailure(tx, userID)
	}

	paidAt := u.clock.Now().UTC()
	affected, err = u.appointmentRepo.Reserve(tx, appointmentID, paidAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrSlotAlreadyTaken
		}
		u.log.Warnf("Failed to reserve appointment %s: %+v", appointmentID, err)
		return nil, storageError(err)
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}

	before := converter.AppointmentToResponse(appointment)
	appointment.Reserve(paidAt)

	if err := u.auditService.Record(tx, service.AuditEntry{
		ActorID:  &userID,
		Action:   entity.AuditActionAppointmentPay,
		Entity:   "appointment",
		EntityID: appointmentID.String(),
		Old:      before,
		New:      converter.AppointmentToResponse(appointment),
	}); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Appointment paid: id=%s, doctor=%s, visit=%s, price=%d", appointmentID, appointment.DoctorID, appointment.VisitTimestamp, appointment.Price)
	u.eventPublisher.PublishAppointmentEvent(ctx, entity.NewAppointmentEvent(entity.AppointmentEventReserved, appointment, paidAt))

	return converter.AppointmentToResponse(appointment), nil
}

// Cancel refunds a reserved appointment and releases its visit instant.
func (u *appointmentUsecase) Cancel(ctx context.Context, appointmentID, userID uuid.UUID) (*dto.AppointmentResponse, error) {
	if _, err := u.findOwned(ctx, appointmentID, userID); err != nil {
		return nil, err
	}

	unlock, err := u.locker.Lock(ctx, appointmentLockKey(appointmentID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.reload(tx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.IsReserved() {
		return nil, ErrInvalidTransition
	}

	affected, err := u.appointmentRepo.Cancel(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return nil, storageError(err)
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}

	affected, err = u.userRepo.Credit(tx, userID, appointment.Price)
	if err != nil {
		u.log.Warnf("Failed to refund user %s: %+v", userID, err)
		return nil, storageError(err)
	}
	if affected == 0 {
		user, err := u.userRepo.FindByID(tx, userID)
		if err != nil {
			u.log.Warnf("Failed to find user %s: %+v", userID, err)
			return nil, storageError(err)
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		return nil, ErrBalanceLimitExceeded
	}

	before := converter.AppointmentToResponse(appointment)
	appointment.Cancel()

	if err := u.auditService.Record(tx, service.AuditEntry{
		ActorID:  &userID,
		Action:   entity.AuditActionAppointmentCancel,
		Entity:   "appointment",
		EntityID: appointmentID.String(),
		Old:      before,
		New:      converter.AppointmentToResponse(appointment),
	}); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Appointment canceled: id=%s, doctor=%s, visit=%s, refund=%d", appointmentID, appointment.DoctorID, appointment.VisitTimestamp, appointment.Price)
	u.eventPublisher.PublishAppointmentEvent(ctx, entity.NewAppointmentEvent(entity.AppointmentEventCanceled, appointment, u.clock.Now()))

	return converter.AppointmentToResponse(appointment), nil
}

// Complete marks an open appointment as done. No balance effect.
func (u *appointmentUsecase) Complete(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	unlock, err := u.locker.Lock(ctx, appointmentLockKey(appointmentID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.reload(tx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.CanComplete() {
		return nil, ErrInvalidTransition
	}

	affected, err := u.appointmentRepo.Complete(tx, appointmentID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrSlotAlreadyTaken
		}
		u.log.Warnf("Failed to complete appointment %s: %+v", appointmentID, err)
		return nil, storageError(err)
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}

	before := converter.AppointmentToResponse(appointment)
	appointment.Complete()

	if err := u.auditService.Record(tx, service.AuditEntry{
		ActorID:  actorFromContext(ctx),
		Action:   entity.AuditActionAppointmentComplete,
		Entity:   "appointment",
		EntityID: appointmentID.String(),
		Old:      before,
		New:      converter.AppointmentToResponse(appointment),
	}); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Appointment completed: id=%s, doctor=%s, visit=%s", appointmentID, appointment.DoctorID, appointment.VisitTimestamp)
	u.eventPublisher.PublishAppointmentEvent(ctx, entity.NewAppointmentEvent(entity.AppointmentEventDone, appointment, u.clock.Now()))

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.reload(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, storageError(err)
	}
	return converter.AppointmentsToListResponse(appointments), nil
}

func (u *appointmentUsecase) ListForUser(ctx context.Context, userID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for user %s: %+v", userID, err)
		return nil, storageError(err)
	}
	return converter.AppointmentsToListResponse(appointments), nil
}

func (u *appointmentUsecase) ListByStatus(ctx context.Context, status string) (*dto.AppointmentListResponse, error) {
	parsed, ok := entity.ParseAppointmentStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	appointments, err := u.appointmentRepo.FindByStatus(u.db.WithContext(ctx), parsed)
	if err != nil {
		u.log.Warnf("Failed to find %s appointments: %+v", parsed, err)
		return nil, storageError(err)
	}
	return converter.AppointmentsToListResponse(appointments), nil
}

// findOwned loads the appointment outside any lock to learn its lock keys.
func (u *appointmentUsecase) findOwned(ctx context.Context, appointmentID, userID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.reload(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.UserID != userID {
		return nil, ErrOwnershipMismatch
	}
	return appointment, nil
}

func (u *appointmentUsecase) reload(db *gorm.DB, appointmentID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, storageError(err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (u *appointmentUsecase) debitFailure(tx *gorm.DB, userID uuid.UUID) error {
	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return storageError(err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	return ErrInsufficientFunds
}
