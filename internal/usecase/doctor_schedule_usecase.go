package usecase

import (
	"context"
	"fmt"

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
	ErrDoctorNotFound    = apperror.New(apperror.KindNotFound, "doctor not found")
	ErrInvalidPrice      = apperror.New(apperror.KindInvalidInput, "price is below the minimum slot price")
	ErrInvalidTimeFormat = apperror.New(apperror.KindInvalidInput, "invalid time format, use HH:MM")
	ErrInvalidWeekday    = apperror.New(apperror.KindInvalidInput, "invalid weekday")
	ErrDuplicateSlot     = apperror.New(apperror.KindConflict, "a slot already exists at this time")
	ErrSlotsTooClose     = apperror.New(apperror.KindConflict, "slot is too close to an existing slot")
	ErrSlotNotFound      = apperror.New(apperror.KindNotFound, "slot not found")
	ErrScheduleNotFound  = apperror.New(apperror.KindNotFound, "schedule not found")
	ErrScheduleModified  = apperror.New(apperror.KindTransient, "schedule was modified concurrently, please retry")
)

type DoctorScheduleUsecase interface {
	AddSlot(ctx context.Context, req *dto.AddSlotRequest) (*dto.SlotResponse, error)
	UpdateSlot(ctx context.Context, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error)
	DeleteSlot(ctx context.Context, req *dto.DeleteSlotRequest) error
	Render(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorScheduleResponse, error)
}

type doctorScheduleUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	cfg          config.BookingConfig
	locker       service.KeyedLocker
	auditService service.AuditService
	scheduleRepo repository.DoctorScheduleRepository
	doctorRepo   repository.DoctorRepository
}

func NewDoctorScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.BookingConfig,
	locker service.KeyedLocker,
	auditService service.AuditService,
	scheduleRepo repository.DoctorScheduleRepository,
	doctorRepo repository.DoctorRepository,
) DoctorScheduleUsecase {
	return &doctorScheduleUsecase{
		db:           db,
		log:          log,
		cfg:          cfg,
		locker:       locker,
		auditService: auditService,
		scheduleRepo: scheduleRepo,
		doctorRepo:   doctorRepo,
	}
}

func scheduleLockKey(doctorID uuid.UUID, weekday entity.Weekday) string {
	return fmt.Sprintf("schedule:%s:%s", doctorID, weekday)
}

func parseSlotPosition(weekdayValue, timeValue string) (entity.Weekday, entity.TimeOfDay, error) {
	weekday, ok := entity.ParseWeekday(weekdayValue)
	if !ok {
		return "", entity.TimeOfDay{}, ErrInvalidWeekday
	}
	tod, err := entity.ParseTimeOfDay(timeValue)
	if err != nil {
		return "", entity.TimeOfDay{}, ErrInvalidTimeFormat
	}
	return weekday, tod, nil
}

// checkPlacement validates a new slot position against the other slots of its bucket.
func (u *doctorScheduleUsecase) checkPlacement(others entity.SlotList, tod entity.TimeOfDay) error {
	if others.IndexOf(tod.String()) >= 0 {
		return ErrDuplicateSlot
	}
	if others.TooClose(tod, u.cfg.MinSlotGap) {
		return ErrSlotsTooClose
	}
	return nil
}

// AddSlot appends a slot to the doctor's bucket for the weekday, creating the
// bucket on first use.
func (u *doctorScheduleUsecase) AddSlot(ctx context.Context, req *dto.AddSlotRequest) (*dto.SlotResponse, error) {
	weekday, tod, err := parseSlotPosition(req.Weekday, req.VisitTime)
	if err != nil {
		return nil, err
	}
	if req.Price < u.cfg.MinSlotPrice {
		return nil, ErrInvalidPrice
	}

	unlock, err := u.locker.Lock(ctx, scheduleLockKey(req.DoctorID, weekday))
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, storageError(err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	schedule, err := u.scheduleRepo.FindByDoctorAndWeekday(tx, req.DoctorID, weekday)
	if err != nil {
		u.log.Warnf("Failed to find schedule %s/%s: %+v", req.DoctorID, weekday, err)
		return nil, storageError(err)
	}

	slot := entity.Slot{VisitTime: tod.String(), Price: req.Price}
	var before entity.SlotList

	if schedule == nil {
		schedule = &entity.DoctorSchedule{
			DoctorID: req.DoctorID,
			Weekday:  weekday,
			Slots:    entity.SlotList{slot},
		}
		if err := u.scheduleRepo.Create(tx, schedule); err != nil {
			if isDuplicateKeyError(err) {
				return nil, ErrScheduleModified
			}
			u.log.Warnf("Failed to create schedule: %+v", err)
			return nil, storageError(err)
		}
	} else {
		if err := u.checkPlacement(schedule.Slots, tod); err != nil {
			return nil, err
		}
		before = schedule.Slots.Clone()
		schedule.Slots = append(schedule.Slots.Clone(), slot)
		if err := u.saveSlots(tx, schedule); err != nil {
			return nil, err
		}
	}

	if err := u.auditService.Record(tx, service.AuditEntry{
		ActorID:  actorFromContext(ctx),
		Action:   entity.AuditActionSlotCreate,
		Entity:   "doctor_schedule",
		EntityID: scheduleLockKey(req.DoctorID, weekday),
		Old:      before,
		New:      schedule.Slots,
	}); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Slot added: doctor=%s, weekday=%s, time=%s, price=%d", req.DoctorID, weekday, slot.VisitTime, slot.Price)
	response := converter.SlotToResponse(slot)
	return &response, nil
}

// UpdateSlot replaces the slot at OldTime in place. The new position is checked
// against the remaining slots only.
func (u *doctorScheduleUsecase) UpdateSlot(ctx context.Context, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error) {
	weekday, oldTime, err := parseSlotPosition(req.Weekday, req.OldTime)
	if err != nil {
		return nil, err
	}
	newTime := oldTime
	if req.VisitTime != nil {
		if newTime, err = entity.ParseTimeOfDay(*req.VisitTime); err != nil {
			return nil, ErrInvalidTimeFormat
		}
	}
	if req.Price != nil && *req.Price < u.cfg.MinSlotPrice {
		return nil, ErrInvalidPrice
	}

	unlock, err := u.locker.Lock(ctx, scheduleLockKey(req.DoctorID, weekday))
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	schedule, err := u.findSchedule(tx, req.DoctorID, weekday)
	if err != nil {
		return nil, err
	}

	index := schedule.Slots.IndexOf(oldTime.String())
	if index < 0 {
		return nil, ErrSlotNotFound
	}

	if err := u.checkPlacement(schedule.Slots.Without(index), newTime); err != nil {
		return nil, err
	}

	before := schedule.Slots.Clone()
	updated := schedule.Slots.Clone()
	updated[index].VisitTime = newTime.String()
	if req.Price != nil {
		updated[index].Price = *req.Price
	}
	schedule.Slots = updated

	if err := u.saveSlots(tx, schedule); err != nil {
		return nil, err
	}

	if err := u.auditService.Record(tx, service.AuditEntry{
		ActorID:  actorFromContext(ctx),
		Action:   entity.AuditActionSlotUpdate,
		Entity:   "doctor_schedule",
		EntityID: scheduleLockKey(req.DoctorID, weekday),
		Old:      before,
		New:      schedule.Slots,
	}); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Slot updated: doctor=%s, weekday=%s, %s -> %s", req.DoctorID, weekday, oldTime, newTime)
	response := converter.SlotToResponse(updated[index])
	return &response, nil
}

// DeleteSlot removes one slot. A bucket left empty is deleted.
func (u *doctorScheduleUsecase) DeleteSlot(ctx context.Context, req *dto.DeleteSlotRequest) error {
	weekday, tod, err := parseSlotPosition(req.Weekday, req.VisitTime)
	if err != nil {
		return err
	}

	unlock, err := u.locker.Lock(ctx, scheduleLockKey(req.DoctorID, weekday))
	if err != nil {
		return err
	}
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	schedule, err := u.findSchedule(tx, req.DoctorID, weekday)
	if err != nil {
		return err
	}

	index := schedule.Slots.IndexOf(tod.String())
	if index < 0 {
		return ErrSlotNotFound
	}

	before := schedule.Slots.Clone()
	schedule.Slots = schedule.Slots.Without(index)

	if len(schedule.Slots) == 0 {
		affected, err := u.scheduleRepo.Delete(tx, schedule)
		if err != nil {
			u.log.Warnf("Failed to delete schedule %d: %+v", schedule.ID, err)
			return storageError(err)
		}
		if affected == 0 {
			return ErrScheduleModified
		}
	} else if err := u.saveSlots(tx, schedule); err != nil {
		return err
	}

	if err := u.auditService.Record(tx, service.AuditEntry{
		ActorID:  actorFromContext(ctx),
		Action:   entity.AuditActionSlotDelete,
		Entity:   "doctor_schedule",
		EntityID: scheduleLockKey(req.DoctorID, weekday),
		Old:      before,
		New:      schedule.Slots,
	}); err != nil {
		return storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return storageError(err)
	}

	u.log.Infof("Slot deleted: doctor=%s, weekday=%s, time=%s", req.DoctorID, weekday, tod)
	return nil
}

// Render returns the doctor's non-empty buckets in business-week order.
func (u *doctorScheduleUsecase) Render(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorScheduleResponse, error) {
	schedules, err := u.scheduleRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedules for doctor %s: %+v", doctorID, err)
		return nil, storageError(err)
	}

	response := converter.SchedulesToResponse(doctorID, schedules)
	if len(response.Days) == 0 {
		return nil, ErrScheduleNotFound
	}
	return response, nil
}

func (u *doctorScheduleUsecase) findSchedule(tx *gorm.DB, doctorID uuid.UUID, weekday entity.Weekday) (*entity.DoctorSchedule, error) {
	schedule, err := u.scheduleRepo.FindByDoctorAndWeekday(tx, doctorID, weekday)
	if err != nil {
		u.log.Warnf("Failed to find schedule %s/%s: %+v", doctorID, weekday, err)
		return nil, storageError(err)
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	return schedule, nil
}

func (u *doctorScheduleUsecase) saveSlots(tx *gorm.DB, schedule *entity.DoctorSchedule) error {
	affected, err := u.scheduleRepo.UpdateSlots(tx, schedule)
	if err != nil {
		u.log.Warnf("Failed to update schedule %d: %+v", schedule.ID, err)
		return storageError(err)
	}
	if affected == 0 {
		return ErrScheduleModified
	}
	return nil
}
