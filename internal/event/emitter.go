package event

import (
	"context"

	"github.com/detailops/booking-api/pkg/logger"
	"github.com/detailops/booking-api/pkg/messaging"
)

// Channel carrying appointment change notifications.
const ChannelAppointments = "appointments"

// Notification types.
const (
	TypeAppointmentCreated   = "appointment.created"
	TypeAppointmentCancelled = "appointment.cancelled"
)

// Notification is the payload published for subscribers (UI refresh,
// confirmation workers).
type Notification struct {
	BusinessID    string `json:"business_id"`
	AppointmentID string `json:"appointment_id"`
}

// Emitter publishes appointment change notifications. Delivery is
// fire-and-forget: a publish failure is logged and never propagated to
// the operation that triggered it.
type Emitter struct {
	publisher messaging.Publisher
	logger    *logger.Logger
}

func NewEmitter(publisher messaging.Publisher, logger *logger.Logger) *Emitter {
	return &Emitter{publisher: publisher, logger: logger.WithComponent("event")}
}

func (e *Emitter) AppointmentCreated(ctx context.Context, businessID, appointmentID string) {
	e.emit(ctx, TypeAppointmentCreated, businessID, appointmentID)
}

func (e *Emitter) AppointmentCancelled(ctx context.Context, businessID, appointmentID string) {
	e.emit(ctx, TypeAppointmentCancelled, businessID, appointmentID)
}

func (e *Emitter) emit(ctx context.Context, eventType, businessID, appointmentID string) {
	msg := messaging.Message{
		Type: eventType,
		Payload: Notification{
			BusinessID:    businessID,
			AppointmentID: appointmentID,
		},
	}
	if err := e.publisher.Publish(ctx, ChannelAppointments, msg); err != nil {
		e.logger.Error(err, "failed to publish notification",
			"type", eventType, "appointment_id", appointmentID)
	}
}
