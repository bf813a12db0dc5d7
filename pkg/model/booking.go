package model

import (
	"time"
)

const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking is a confirmed reservation of a [StartTime, EndTime) interval for
// an event. It is never mutated after creation; cancellation flips Status and
// leaves the interval intact so the historical overlap invariant holds.
type Booking struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	EventID        string    `json:"event_id" bson:"event_id" validate:"required,mongodb"`
	GuestName      string    `json:"guest_name" bson:"guest_name" validate:"required,min=1,max=100"`
	GuestEmail     string    `json:"guest_email" bson:"guest_email" validate:"required,email"`
	StartTime      time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime        time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	AdditionalInfo string    `json:"additional_info,omitempty" bson:"additional_info" validate:"omitempty,max=1000"`
	MeetingURL     string    `json:"meeting_url,omitempty" bson:"meeting_url" validate:"omitempty,url"`
	Status         string    `json:"status" bson:"status" validate:"required,oneof=confirmed cancelled"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Overlaps reports whether the booking's interval shares at least one instant
// with [start, end) under half-open semantics.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && start.Before(b.EndTime)
}

// BookingRequest is the guest-submitted payload. The requested start time is
// never trusted as-is; the bookings service re-derives the valid candidate
// set before reserving.
type BookingRequest struct {
	EventID        string    `json:"event_id" validate:"required,mongodb"`
	GuestName      string    `json:"guest_name" validate:"required,min=1,max=100"`
	GuestEmail     string    `json:"guest_email" validate:"required,email"`
	StartTime      time.Time `json:"start_time" validate:"required"`
	EndTime        time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	AdditionalInfo string    `json:"additional_info,omitempty" validate:"omitempty,max=1000"`
}
