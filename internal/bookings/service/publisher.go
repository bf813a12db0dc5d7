package service

import (
	"context"
	"time"

	"slotly/pkg/kafka"
	"slotly/pkg/model"
)

// BookingPublisher emits booking lifecycle events for downstream consumers
// (notification senders, analytics). Publishing is best-effort: a reserved
// booking is durable before any event leaves the process.
type BookingPublisher interface {
	BookingConfirmed(ctx context.Context, booking *model.Booking, hostID string) error
	BookingCancelled(ctx context.Context, booking *model.Booking, hostID string) error
}

type kafkaBookingPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaBookingPublisher(producer *kafka.Producer, source string) BookingPublisher {
	return &kafkaBookingPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *kafkaBookingPublisher) BookingConfirmed(ctx context.Context, booking *model.Booking, hostID string) error {
	return p.publish(ctx, kafka.EventBookingConfirmed, booking, hostID)
}

func (p *kafkaBookingPublisher) BookingCancelled(ctx context.Context, booking *model.Booking, hostID string) error {
	return p.publish(ctx, kafka.EventBookingCancelled, booking, hostID)
}

func (p *kafkaBookingPublisher) publish(ctx context.Context, eventType string, booking *model.Booking, hostID string) error {
	payload := kafka.BookingEvent{
		BookingID:  booking.ID,
		EventID:    booking.EventID,
		HostID:     hostID,
		GuestName:  booking.GuestName,
		GuestEmail: booking.GuestEmail,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		MeetingURL: booking.MeetingURL,
		Status:     booking.Status,
		OccurredAt: time.Now().UTC(),
	}

	// Keyed by event type ID so all bookings of one event stay ordered on
	// a single partition.
	msg := kafka.NewMessage().
		WithKey(booking.EventID).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(p.source).
		WithSchemaVersion("1").
		Build()

	return p.producer.Publish(ctx, msg)
}
