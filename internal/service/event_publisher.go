package service

import (
	"context"
	"time"

	"doctor-booking/internal/domain/entity"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// MessagePublisher delivers an encoded message under a routing key.
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// EventPublisher announces committed appointment transitions. Delivery is
// best effort: failures are logged and never reported to the caller.
type EventPublisher interface {
	PublishAppointmentEvent(ctx context.Context, event entity.AppointmentEvent)
}

const eventPublishTimeout = 3 * time.Second

type eventPublisher struct {
	publisher MessagePublisher
	log       *logrus.Logger
}

// NewEventPublisher returns a publisher over p. A nil p only logs events.
func NewEventPublisher(p MessagePublisher, log *logrus.Logger) EventPublisher {
	return &eventPublisher{publisher: p, log: log}
}

func (s *eventPublisher) PublishAppointmentEvent(ctx context.Context, event entity.AppointmentEvent) {
	if s.publisher == nil {
		s.log.Debugf("Event %s for appointment %s not published: no broker", event.Type, event.AppointmentID)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.log.Warnf("Failed to encode event %s: %+v", event.Type, err)
		return
	}

	// the request may already be finishing; keep its values but not its deadline
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event.Type, body); err != nil {
		s.log.Warnf("Failed to publish event %s for appointment %s: %+v", event.Type, event.AppointmentID, err)
	}
}
