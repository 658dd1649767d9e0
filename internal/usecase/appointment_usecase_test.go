package usecase

import (
	"context"
	"testing"

	"doctor-booking/internal/delivery/dto"
	"doctor-booking/internal/delivery/http/middleware"
	"doctor-booking/internal/domain/entity"
	"doctor-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookPending(t *testing.T, f *fixture, user *entity.User, weekday, visitTime string) *dto.AppointmentResponse {
	t.Helper()
	booked, err := book(f, user.ID, weekday, visitTime)
	require.NoError(t, err)
	return &booked.Appointment
}

func TestAppointmentUsecase_Pay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addSlot(t, f, "saturday", "09:00", 50000)
	addSlot(t, f, "sunday", "09:00", 50000)
	addSlot(t, f, "monday", "09:00", 50000)
	addSlot(t, f, "tuesday", "09:00", 50000)

	t.Run("exact balance", func(t *testing.T) {
		user := f.newUser(t, 50000)
		appointment := bookPending(t, f, user, "saturday", "09:00")

		paid, err := f.appointments.Pay(ctx, appointment.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, string(entity.AppointmentStatusReserved), paid.Status)
		assert.Equal(t, int64(0), f.balance(t, user.ID))

		t.Run("paying again is an invalid transition", func(t *testing.T) {
			_, err := f.appointments.Pay(ctx, appointment.ID, user.ID)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))
			assert.Equal(t, int64(0), f.balance(t, user.ID))
		})

		t.Run("paying a canceled appointment", func(t *testing.T) {
			_, err := f.appointments.Cancel(ctx, appointment.ID, user.ID)
			require.NoError(t, err)
			require.Equal(t, int64(50000), f.balance(t, user.ID))

			_, err = f.appointments.Pay(ctx, appointment.ID, user.ID)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, int64(50000), f.balance(t, user.ID))
		})
	})

	t.Run("someone else's appointment", func(t *testing.T) {
		owner := f.newUser(t, 60000)
		stranger := f.newUser(t, 60000)
		appointment := bookPending(t, f, owner, "sunday", "09:00")

		_, err := f.appointments.Pay(ctx, appointment.ID, stranger.ID)
		assert.ErrorIs(t, err, ErrOwnershipMismatch)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		assert.Equal(t, entity.AppointmentStatusPending, f.status(t, appointment.ID))
		assert.Equal(t, int64(60000), f.balance(t, stranger.ID))
		assert.Equal(t, int64(60000), f.balance(t, owner.ID))
	})

	t.Run("balance spent after booking", func(t *testing.T) {
		user := f.newUser(t, 60000)
		first := bookPending(t, f, user, "monday", "09:00")
		second := bookPending(t, f, user, "tuesday", "09:00")

		_, err := f.appointments.Pay(ctx, first.ID, user.ID)
		require.NoError(t, err)

		_, err = f.appointments.Pay(ctx, second.ID, user.ID)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, entity.AppointmentStatusPending, f.status(t, second.ID))
		assert.Equal(t, int64(10000), f.balance(t, user.ID))
	})

	t.Run("missing appointment", func(t *testing.T) {
		_, err := f.appointments.Pay(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestAppointmentUsecase_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addSlot(t, f, "saturday", "09:00", 50000)
	user := f.newUser(t, 80000)
	appointment := bookPending(t, f, user, "saturday", "09:00")

	t.Run("pending cannot be canceled", func(t *testing.T) {
		_, err := f.appointments.Cancel(ctx, appointment.ID, user.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, int64(80000), f.balance(t, user.ID))
	})

	t.Run("missing appointment", func(t *testing.T) {
		_, err := f.appointments.Cancel(ctx, uuid.New(), user.ID)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	_, err := f.appointments.Pay(ctx, appointment.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(30000), f.balance(t, user.ID))

	t.Run("someone else", func(t *testing.T) {
		_, err := f.appointments.Cancel(ctx, appointment.ID, uuid.New())
		assert.ErrorIs(t, err, ErrOwnershipMismatch)
		assert.Equal(t, entity.AppointmentStatusReserved, f.status(t, appointment.ID))
	})

	t.Run("refunds the snapshotted price", func(t *testing.T) {
		// repricing the slot must not change the refund
		price := int64(90000)
		_, err := f.schedules.UpdateSlot(ctx, &dto.UpdateSlotRequest{
			DoctorID: f.doctor.ID, Weekday: "saturday", OldTime: "09:00", Price: &price,
		})
		require.NoError(t, err)

		canceled, err := f.appointments.Cancel(ctx, appointment.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50000), canceled.Price)
		assert.Equal(t, int64(80000), f.balance(t, user.ID))
	})

	t.Run("canceling twice", func(t *testing.T) {
		_, err := f.appointments.Cancel(ctx, appointment.ID, user.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, int64(80000), f.balance(t, user.ID))
	})
}

func TestAppointmentUsecase_Complete(t *testing.T) {
	f := newFixture(t)
	adminID := uuid.New()
	ctx := middleware.WithIdentity(context.Background(), adminID, entity.RoleIDAdmin)
	addSlot(t, f, "saturday", "09:00", 50000)
	addSlot(t, f, "sunday", "09:00", 50000)
	user := f.newUser(t, 100000)

	reserved := bookPending(t, f, user, "saturday", "09:00")
	_, err := f.appointments.Pay(ctx, reserved.ID, user.ID)
	require.NoError(t, err)
	pending := bookPending(t, f, user, "sunday", "09:00")

	for name, id := range map[string]uuid.UUID{"reserved": reserved.ID, "pending": pending.ID} {
		t.Run(name, func(t *testing.T) {
			done, err := f.appointments.Complete(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, string(entity.AppointmentStatusDone), done.Status)
		})
	}
	assert.Equal(t, int64(50000), f.balance(t, user.ID), "completion has no balance effect")

	t.Run("done is terminal", func(t *testing.T) {
		_, err := f.appointments.Complete(ctx, reserved.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		_, err = f.appointments.Cancel(ctx, reserved.ID, user.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, int64(50000), f.balance(t, user.ID))
	})

	t.Run("done still occupies the instant", func(t *testing.T) {
		other := f.newUser(t, 100000)
		_, err := book(f, other.ID, "saturday", "09:00")
		assert.ErrorIs(t, err, ErrSlotAlreadyTaken)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.appointments.Complete(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("audited with the admin as actor", func(t *testing.T) {
		logs, err := f.auditLogs.ListAuditLogs(ctx, nil)
		require.NoError(t, err)
		require.NotEmpty(t, logs.Logs)
		latest := logs.Logs[0]
		assert.Equal(t, entity.AuditActionAppointmentComplete, latest.Action)
		require.NotNil(t, latest.UserID)
		assert.Equal(t, adminID, *latest.UserID)
	})
}

func TestAppointmentUsecase_Lists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addSlot(t, f, "saturday", "09:00", 50000)
	addSlot(t, f, "saturday", "11:00", 50000)
	alice := f.newUser(t, 200000)
	bob := f.newUser(t, 200000)

	a1 := bookPending(t, f, alice, "saturday", "09:00")
	bookPending(t, f, alice, "saturday", "11:00")
	bookPending(t, f, bob, "saturday", "09:00")
	_, err := f.appointments.Pay(ctx, a1.ID, alice.ID)
	require.NoError(t, err)

	forDoctor, err := f.appointments.ListForDoctor(ctx, f.doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, forDoctor.Total)

	forAlice, err := f.appointments.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, forAlice.Total)
	for _, appointment := range forAlice.Appointments {
		assert.Equal(t, alice.ID, appointment.UserID)
	}

	pending, err := f.appointments.ListByStatus(ctx, "pending")
	require.NoError(t, err)
	assert.Equal(t, 2, pending.Total)

	_, err = f.appointments.ListByStatus(ctx, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	got, err := f.appointments.GetAppointment(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusReserved), got.Status)
}
