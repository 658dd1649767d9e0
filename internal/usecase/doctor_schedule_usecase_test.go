package usecase

import (
	"context"
	"sync"
	"testing"

	"doctor-booking/internal/delivery/dto"
	"doctor-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addSlot(t *testing.T, f *fixture, weekday, visitTime string, price int64) {
	t.Helper()
	_, err := f.schedules.AddSlot(context.Background(), &dto.AddSlotRequest{
		DoctorID: f.doctor.ID, Weekday: weekday, VisitTime: visitTime, Price: price,
	})
	require.NoError(t, err)
}

func TestDoctorScheduleUsecase_AddSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addSlot(t, f, "saturday", "09:00", 50000)

	tests := []struct {
		name      string
		doctorID  uuid.UUID
		weekday   string
		visitTime string
		price     int64
		wantErr   error
	}{
		{name: "below minimum price", weekday: "saturday", visitTime: "12:00", price: 29999, wantErr: ErrInvalidPrice},
		{name: "malformed time", weekday: "saturday", visitTime: "9:00", price: 50000, wantErr: ErrInvalidTimeFormat},
		{name: "out of range time", weekday: "saturday", visitTime: "24:00", price: 50000, wantErr: ErrInvalidTimeFormat},
		{name: "unknown weekday", weekday: "funday", visitTime: "12:00", price: 50000, wantErr: ErrInvalidWeekday},
		{name: "duplicate time", weekday: "saturday", visitTime: "09:00", price: 40000, wantErr: ErrDuplicateSlot},
		{name: "within gap after", weekday: "saturday", visitTime: "09:05", price: 50000, wantErr: ErrSlotsTooClose},
		{name: "within gap before", weekday: "saturday", visitTime: "08:55", price: 50000, wantErr: ErrSlotsTooClose},
		{name: "unknown doctor", doctorID: uuid.New(), weekday: "saturday", visitTime: "12:00", price: 50000, wantErr: ErrDoctorNotFound},
		{name: "exactly the gap", weekday: "saturday", visitTime: "09:10", price: 50000},
		{name: "same time on another weekday", weekday: "sunday", visitTime: "09:05", price: 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doctorID := tt.doctorID
			if doctorID == uuid.Nil {
				doctorID = f.doctor.ID
			}
			slot, err := f.schedules.AddSlot(ctx, &dto.AddSlotRequest{
				DoctorID: doctorID, Weekday: tt.weekday, VisitTime: tt.visitTime, Price: tt.price,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.visitTime, slot.VisitTime)
		})
	}

	t.Run("error kinds", func(t *testing.T) {
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(ErrSlotsTooClose))
		assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(ErrInvalidPrice))
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(ErrDoctorNotFound))
	})

	t.Run("insertion order is kept", func(t *testing.T) {
		schedule, err := f.schedules.Render(ctx, f.doctor.ID)
		require.NoError(t, err)
		require.Len(t, schedule.Days, 2)
		assert.Equal(t, "saturday", schedule.Days[0].Weekday)
		assert.Equal(t, []dto.SlotResponse{
			{VisitTime: "09:00", Price: 50000},
			{VisitTime: "09:10", Price: 50000},
		}, schedule.Days[0].Details)
	})
}

func TestDoctorScheduleUsecase_AdjacentHourGap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addSlot(t, f, "monday", "09:58", 40000)

	_, err := f.schedules.AddSlot(ctx, &dto.AddSlotRequest{DoctorID: f.doctor.ID, Weekday: "monday", VisitTime: "10:05", Price: 40000})
	assert.ErrorIs(t, err, ErrSlotsTooClose)

	_, err = f.schedules.AddSlot(ctx, &dto.AddSlotRequest{DoctorID: f.doctor.ID, Weekday: "monday", VisitTime: "10:08", Price: 40000})
	assert.NoError(t, err)
}

func TestDoctorScheduleUsecase_AddThenDeleteRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addSlot(t, f, "tuesday", "09:00", 40000)
	addSlot(t, f, "tuesday", "11:00", 45000)
	addSlot(t, f, "tuesday", "13:00", 50000)

	before, err := f.schedules.Render(ctx, f.doctor.ID)
	require.NoError(t, err)

	addSlot(t, f, "tuesday", "10:00", 60000)
	err = f.schedules.DeleteSlot(ctx, &dto.DeleteSlotRequest{DoctorID: f.doctor.ID, Weekday: "tuesday", VisitTime: "10:00"})
	require.NoError(t, err)

	after, err := f.schedules.Render(ctx, f.doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDoctorScheduleUsecase_DeleteSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addSlot(t, f, "wednesday", "09:00", 40000)
	addSlot(t, f, "wednesday", "10:00", 45000)
	addSlot(t, f, "wednesday", "11:00", 50000)

	t.Run("middle slot keeps pairing", func(t *testing.T) {
		err := f.schedules.DeleteSlot(ctx, &dto.DeleteSlotRequest{DoctorID: f.doctor.ID, Weekday: "wednesday", VisitTime: "10:00"})
		require.NoError(t, err)

		schedule, err := f.schedules.Render(ctx, f.doctor.ID)
		require.NoError(t, err)
		assert.Equal(t, []dto.SlotResponse{
			{VisitTime: "09:00", Price: 40000},
			{VisitTime: "11:00", Price: 50000},
		}, schedule.Days[0].Details)
	})

	t.Run("missing slot", func(t *testing.T) {
		err := f.schedules.DeleteSlot(ctx, &dto.DeleteSlotRequest{DoctorID: f.doctor.ID, Weekday: "wednesday", VisitTime: "10:00"})
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("missing bucket", func(t *testing.T) {
		err := f.schedules.DeleteSlot(ctx, &dto.DeleteSlotRequest{DoctorID: f.doctor.ID, Weekday: "friday", VisitTime: "10:00"})
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})

	t.Run("last slot removes the bucket", func(t *testing.T) {
		for _, visitTime := range []string{"09:00", "11:00"} {
			err := f.schedules.DeleteSlot(ctx, &dto.DeleteSlotRequest{DoctorID: f.doctor.ID, Weekday: "wednesday", VisitTime: visitTime})
			require.NoError(t, err)
		}

		_, err := f.schedules.Render(ctx, f.doctor.ID)
		assert.ErrorIs(t, err, ErrScheduleNotFound)

		// a fresh bucket starts clean
		addSlot(t, f, "wednesday", "15:00", 40000)
		schedule, err := f.schedules.Render(ctx, f.doctor.ID)
		require.NoError(t, err)
		assert.Equal(t, []dto.SlotResponse{{VisitTime: "15:00", Price: 40000}}, schedule.Days[0].Details)
	})
}

func TestDoctorScheduleUsecase_UpdateSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addSlot(t, f, "sunday", "09:00", 40000)
	addSlot(t, f, "sunday", "10:00", 45000)
	addSlot(t, f, "sunday", "11:00", 50000)

	strPtr := func(s string) *string { return &s }
	intPtr := func(i int64) *int64 { return &i }

	tests := []struct {
		name    string
		oldTime string
		newTime *string
		price   *int64
		wantErr error
	}{
		{name: "missing slot", oldTime: "12:00", price: intPtr(40000), wantErr: ErrSlotNotFound},
		{name: "collides with neighbour", oldTime: "10:00", newTime: strPtr("09:05"), wantErr: ErrSlotsTooClose},
		{name: "duplicate of neighbour", oldTime: "10:00", newTime: strPtr("11:00"), wantErr: ErrDuplicateSlot},
		{name: "price below minimum", oldTime: "10:00", price: intPtr(100), wantErr: ErrInvalidPrice},
		{name: "malformed new time", oldTime: "10:00", newTime: strPtr("1000"), wantErr: ErrInvalidTimeFormat},
		{name: "small move ignores its own old position", oldTime: "10:00", newTime: strPtr("10:05")},
		{name: "price only", oldTime: "10:05", price: intPtr(70000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.schedules.UpdateSlot(ctx, &dto.UpdateSlotRequest{
				DoctorID: f.doctor.ID, Weekday: "sunday", OldTime: tt.oldTime, VisitTime: tt.newTime, Price: tt.price,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	t.Run("edited slot stays in place", func(t *testing.T) {
		schedule, err := f.schedules.Render(ctx, f.doctor.ID)
		require.NoError(t, err)
		assert.Equal(t, []dto.SlotResponse{
			{VisitTime: "09:00", Price: 40000},
			{VisitTime: "10:05", Price: 70000},
			{VisitTime: "11:00", Price: 50000},
		}, schedule.Days[0].Details)
	})

	t.Run("missing bucket", func(t *testing.T) {
		_, err := f.schedules.UpdateSlot(ctx, &dto.UpdateSlotRequest{
			DoctorID: f.doctor.ID, Weekday: "friday", OldTime: "09:00", Price: intPtr(40000),
		})
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})
}

func TestDoctorScheduleUsecase_ConcurrentAddsKeepSpacing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	times := []string{"09:00", "09:03", "09:06", "09:09"}
	errs := make([]error, len(times))
	var wg sync.WaitGroup
	for i, visitTime := range times {
		wg.Add(1)
		go func(i int, visitTime string) {
			defer wg.Done()
			_, errs[i] = f.schedules.AddSlot(ctx, &dto.AddSlotRequest{
				DoctorID: f.doctor.ID, Weekday: "thursday", VisitTime: visitTime, Price: 40000,
			})
		}(i, visitTime)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotsTooClose)
	}
	assert.Equal(t, 1, succeeded)

	schedule, err := f.schedules.Render(ctx, f.doctor.ID)
	require.NoError(t, err)
	assert.Len(t, schedule.Days[0].Details, 1)
}

func TestDoctorScheduleUsecase_Render(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.schedules.Render(ctx, f.doctor.ID)
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	addSlot(t, f, "friday", "09:00", 40000)
	addSlot(t, f, "saturday", "09:00", 40000)
	addSlot(t, f, "monday", "09:00", 40000)

	schedule, err := f.schedules.Render(ctx, f.doctor.ID)
	require.NoError(t, err)

	weekdays := make([]string, len(schedule.Days))
	for i, day := range schedule.Days {
		weekdays[i] = day.Weekday
	}
	assert.Equal(t, []string{"saturday", "monday", "friday"}, weekdays)
}
