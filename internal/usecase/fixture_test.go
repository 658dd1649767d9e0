package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"doctor-booking/config"
	"doctor-booking/internal/domain/entity"
	"doctor-booking/internal/repository"
	"doctor-booking/internal/service"
	"doctor-booking/internal/testutil"
	"doctor-booking/pkg/calendar"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var tehran = time.FixedZone("IRST", 3*60*60+30*60)

// thursdayMorning is 1403/01/02 10:00 in Tehran.
var thursdayMorning = time.Date(2024, 3, 21, 10, 0, 0, 0, tehran)

var testBookingConfig = config.BookingConfig{
	MinSlotPrice:    30000,
	MinSlotGap:      10 * time.Minute,
	MinWalletCharge: 5000,
	DisplayCalendar: calendar.NamePersian,
	LockWait:        3 * time.Second,
}

type recordingEvents struct {
	mu     sync.Mutex
	events []entity.AppointmentEvent
}

func (r *recordingEvents) PublishAppointmentEvent(ctx context.Context, event entity.AppointmentEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	db     *gorm.DB
	clock  *service.FixedClock
	events *recordingEvents

	schedules    DoctorScheduleUsecase
	booking      PatientBookingUsecase
	appointments AppointmentUsecase
	wallet       WalletUsecase
	doctors      DoctorProfileUsecase
	auditLogs    AuditLogUsecase

	doctor *entity.Doctor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger()
	clock := &service.FixedClock{At: thursdayMorning}
	events := &recordingEvents{}

	locker := service.NewLocalLocker(log, testBookingConfig.LockWait)
	t.Cleanup(locker.Stop)

	resolver := service.NewDateResolver(tehran, calendar.Persian{})

	userRepo := repository.NewUserRepository()
	doctorRepo := repository.NewDoctorRepository()
	scheduleRepo := repository.NewDoctorScheduleRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	auditService := service.NewAuditService(log, auditLogRepo)

	doctor := &entity.Doctor{FullName: "Dr. Sara", Specialization: "cardiology", Status: entity.DoctorStatusAccepted, Available: true}
	require.NoError(t, doctorRepo.Create(db, doctor))

	return &fixture{
		db:     db,
		clock:  clock,
		events: events,
		schedules: NewDoctorScheduleUsecase(db, log, testBookingConfig, locker, auditService,
			scheduleRepo, doctorRepo),
		booking: NewPatientBookingUsecase(db, log, clock, resolver, locker, auditService, events,
			doctorRepo, scheduleRepo, appointmentRepo, userRepo),
		appointments: NewAppointmentUsecase(db, log, clock, locker, auditService, events,
			appointmentRepo, userRepo),
		wallet:    NewWalletUsecase(db, log, testBookingConfig, auditService, userRepo),
		doctors:   NewDoctorProfileUsecase(db, log, clock, auditService, doctorRepo),
		auditLogs: NewAuditLogUsecase(db, log, auditLogRepo),
		doctor:    doctor,
	}
}

func (f *fixture) newUser(t *testing.T, balance int64) *entity.User {
	t.Helper()
	user := &entity.User{FullName: "Patient", Mobile: uuid.NewString()[:20], Balance: balance}
	require.NoError(t, repository.NewUserRepository().Create(f.db, user))
	return user
}

func (f *fixture) balance(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()
	user, err := repository.NewUserRepository().FindByID(f.db, userID)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user.Balance
}

func (f *fixture) status(t *testing.T, appointmentID uuid.UUID) entity.AppointmentStatus {
	t.Helper()
	appointment, err := repository.NewAppointmentRepository().FindByID(f.db, appointmentID)
	require.NoError(t, err)
	require.NotNil(t, appointment)
	return appointment.Status
}

// steppingClock returns its instants in order, then keeps returning the last one.
type steppingClock struct {
	mu    sync.Mutex
	times []time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return now
}

// bookingWithClock builds a booking usecase over the fixture's database with its own clock.
func (f *fixture) bookingWithClock(t *testing.T, clock service.Clock) PatientBookingUsecase {
	t.Helper()
	log := testutil.NewTestLogger()
	locker := service.NewLocalLocker(log, testBookingConfig.LockWait)
	t.Cleanup(locker.Stop)

	return NewPatientBookingUsecase(f.db, log, clock,
		service.NewDateResolver(tehran, calendar.Persian{}), locker,
		service.NewAuditService(log, repository.NewAuditLogRepository()), f.events,
		repository.NewDoctorRepository(), repository.NewDoctorScheduleRepository(),
		repository.NewAppointmentRepository(), repository.NewUserRepository())
}
