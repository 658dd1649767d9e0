package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"doctor-booking/internal/domain/entity"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	routingKeys []string
	bodies      [][]byte
	err         error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	if p.err != nil {
		return p.err
	}
	p.routingKeys = append(p.routingKeys, routingKey)
	p.bodies = append(p.bodies, body)
	return nil
}

func TestEventPublisher(t *testing.T) {
	appointment := &entity.Appointment{
		ID:             uuid.New(),
		DoctorID:       uuid.New(),
		UserID:         uuid.New(),
		VisitTimestamp: "1403/01/04 09:00",
		Price:          50000,
		Status:         entity.AppointmentStatusReserved,
	}
	event := entity.NewAppointmentEvent(entity.AppointmentEventReserved, appointment, time.Now())

	t.Run("publishes under the event type", func(t *testing.T) {
		recorder := &recordingPublisher{}
		NewEventPublisher(recorder, newTestLogger()).PublishAppointmentEvent(context.Background(), event)

		require.Len(t, recorder.bodies, 1)
		assert.Equal(t, entity.AppointmentEventReserved, recorder.routingKeys[0])

		var decoded entity.AppointmentEvent
		require.NoError(t, json.Unmarshal(recorder.bodies[0], &decoded))
		assert.Equal(t, appointment.ID, decoded.AppointmentID)
		assert.Equal(t, entity.AppointmentStatusReserved, decoded.Status)
	})

	t.Run("broker failure is swallowed", func(t *testing.T) {
		recorder := &recordingPublisher{err: errors.New("connection closed")}
		assert.NotPanics(t, func() {
			NewEventPublisher(recorder, newTestLogger()).PublishAppointmentEvent(context.Background(), event)
		})
	})

	t.Run("nil broker", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewEventPublisher(nil, newTestLogger()).PublishAppointmentEvent(context.Background(), event)
		})
	})
}
