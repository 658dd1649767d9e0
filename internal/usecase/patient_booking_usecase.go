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
	ErrDoctorUnavailable = apperror.New(apperror.KindForbidden, "doctor is not accepting appointments")
	ErrSlotAlreadyTaken  = apperror.New(apperror.KindConflict, "this visit time is already reserved")
	ErrUserDoubleBooked  = apperror.New(apperror.KindConflict, "you already have an appointment at this visit time")
	ErrInsufficientFunds = apperror.New(apperror.KindForbidden, "insufficient wallet balance")
	ErrVisitInPast       = apperror.New(apperror.KindInvalidInput, "this visit time has already passed today")
	ErrUserNotFound      = apperror.New(apperror.KindNotFound, "user not found")
)

const bookingPaymentMessage = "Appointment created. Pay to finalize the reservation."

type PatientBookingUsecase interface {
	Book(ctx context.Context, userID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.BookingResponse, error)
}

type patientBookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	clock           service.Clock
	resolver        *service.DateResolver
	locker          service.KeyedLocker
	auditService    service.AuditService
	eventPublisher  service.EventPublisher
	doctorRepo      repository.DoctorRepository
	scheduleRepo    repository.DoctorScheduleRepository
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
}

func NewPatientBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clock service.Clock,
	resolver *service.DateResolver,
	locker service.KeyedLocker,
	auditService service.AuditService,
	eventPublisher service.EventPublisher,
	doctorRepo repository.DoctorRepository,
	scheduleRepo repository.DoctorScheduleRepository,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
) PatientBookingUsecase {
	return &patientBookingUsecase{
		db:              db,
		log:             log,
		clock:           clock,
		resolver:        resolver,
		locker:          locker,
		auditService:    auditService,
		eventPublisher:  eventPublisher,
		doctorRepo:      doctorRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
	}
}

func bookingLockKey(doctorID uuid.UUID, visitTimestamp string) string {
	return fmt.Sprintf("booking:%s:%s", doctorID, visitTimestamp)
}

func userLockKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID)
}

// Book creates a pending appointment for the next occurrence of the slot.
// The balance is only checked here; Pay debits it.
//
// Locks are taken user first, then doctor+visit, so that a patient cannot
// hold two pending requests for one instant and the doctor-side check sees
// every committed reservation for it.
func (u *patientBookingUsecase) Book(ctx context.Context, userID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.BookingResponse, error) {
	weekday, tod, err := parseSlotPosition(req.Weekday, req.VisitTime)
	if err != nil {
		return nil, err
	}

	unlockUser, err := u.locker.Lock(ctx, userLockKey(userID))
	if err != nil {
		return nil, err
	}
	defer unlockUser()

	now := u.clock.Now()
	visit, err := u.resolver.NextOccurrence(weekday, tod, now)
	if err != nil {
		return nil, ErrInvalidWeekday
	}

	unlockVisit, err := u.locker.Lock(ctx, bookingLockKey(req.DoctorID, visit.Display))
	if err != nil {
		return nil, err
	}
	defer unlockVisit()

	// waiting on the visit lock may have let the slot start
	now = u.clock.Now()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Step 1: doctor eligibility
	doctor, err := u.doctorRepo.FindByID(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, storageError(err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.CanReceiveAppointments() {
		return nil, ErrDoctorUnavailable
	}

	// Step 2: slot lookup
	schedule, err := u.scheduleRepo.FindByDoctorAndWeekday(tx, req.DoctorID, weekday)
	if err != nil {
		u.log.Warnf("Failed to find schedule %s/%s: %+v", req.DoctorID, weekday, err)
		return nil, storageError(err)
	}
	if schedule == nil {
		return nil, ErrSlotNotFound
	}
	index := schedule.Slots.IndexOf(tod.String())
	if index < 0 {
		return nil, ErrSlotNotFound
	}
	slot := schedule.Slots[index]

	// Step 3: the instant must not be held by a paid appointment
	taken, err := u.appointmentRepo.FindByDoctorAndVisit(tx, req.DoctorID, visit.Display, entity.OccupyingStatuses...)
	if err != nil {
		u.log.Warnf("Failed to check doctor appointments: %+v", err)
		return nil, storageError(err)
	}
	if len(taken) > 0 {
		return nil, ErrSlotAlreadyTaken
	}

	// Step 4: the patient must not already hold the instant
	mine, err := u.appointmentRepo.FindByUserAndVisit(tx, userID, visit.Display, entity.UserBlockingStatuses...)
	if err != nil {
		u.log.Warnf("Failed to check user appointments: %+v", err)
		return nil, storageError(err)
	}
	if len(mine) > 0 {
		return nil, ErrUserDoubleBooked
	}

	// Step 5: balance sufficiency
	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, storageError(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.CanAfford(slot.Price) {
		return nil, ErrInsufficientFunds
	}

	// Step 6: today's slots that already started are closed
	if u.resolver.IsPast(visit, tod, now) {
		return nil, ErrVisitInPast
	}

	appointment := &entity.Appointment{
		DoctorID:       req.DoctorID,
		UserID:         userID,
		Weekday:        weekday,
		VisitTime:      tod.String(),
		VisitTimestamp: visit.Display,
		VisitAt:        visit.At.UTC(),
		Price:          slot.Price,
		Status:         entity.AppointmentStatusPending,
	}
	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, storageError(err)
	}

	if err := u.auditService.Record(tx, service.AuditEntry{
		ActorID:  &userID,
		Action:   entity.AuditActionAppointmentCreate,
		Entity:   "appointment",
		EntityID: appointment.ID.String(),
		New:      converter.AppointmentToResponse(appointment),
	}); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Appointment booked: id=%s, doctor=%s, user=%s, visit=%s", appointment.ID, req.DoctorID, userID, visit.Display)
	u.eventPublisher.PublishAppointmentEvent(ctx, entity.NewAppointmentEvent(entity.AppointmentEventCreated, appointment, now))

	return &dto.BookingResponse{
		Appointment:     *converter.AppointmentToResponse(appointment),
		PaymentRequired: true,
		Message:         bookingPaymentMessage,
	}, nil
}
