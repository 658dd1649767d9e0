package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentTransitions(t *testing.T) {
	a := &Appointment{Status: AppointmentStatusPending, Price: 50000}
	paidAt := time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC)

	assert.True(t, a.IsPending())
	assert.True(t, a.CanComplete())

	a.Reserve(paidAt)
	assert.True(t, a.IsReserved())
	assert.True(t, a.Paid)
	assert.Equal(t, paidAt, *a.PaymentAt)

	a.Cancel()
	assert.Equal(t, AppointmentStatusCanceled, a.Status)
	assert.False(t, a.Paid)
	assert.Nil(t, a.PaymentAt)
	assert.False(t, a.CanComplete())
}

func TestParseAppointmentStatus(t *testing.T) {
	s, ok := ParseAppointmentStatus("reserved")
	assert.True(t, ok)
	assert.Equal(t, AppointmentStatusReserved, s)

	_, ok = ParseAppointmentStatus("paid")
	assert.False(t, ok)
}

func TestDoctorEligibility(t *testing.T) {
	d := &Doctor{Status: DoctorStatusAccepted, Available: true}
	assert.True(t, d.CanReceiveAppointments())

	d.Available = false
	assert.False(t, d.CanReceiveAppointments())

	d = &Doctor{Status: DoctorStatusPending, Available: true}
	assert.False(t, d.CanReceiveAppointments())
}
