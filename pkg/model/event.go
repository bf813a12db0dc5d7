package model

import "time"

// EventType is a bookable meeting definition owned by a host. Duration is
// immutable once any booking references the event; only metadata fields may
// change afterwards.
type EventType struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HostID          string    `json:"host_id" bson:"host_id" validate:"required,min=1,max=100"`
	Title           string    `json:"title" bson:"title" validate:"required,min=2,max=100"`
	Description     string    `json:"description,omitempty" bson:"description" validate:"omitempty,max=500"`
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes" validate:"required,min=5,max=240"`
	IsPrivate       bool      `json:"is_private" bson:"is_private"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

func (e *EventType) Duration() time.Duration {
	return time.Duration(e.DurationMinutes) * time.Minute
}

// EventTypeUpdate carries the metadata fields that stay mutable after the
// event has bookings.
type EventTypeUpdate struct {
	Title       string  `json:"title,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsPrivate   *bool   `json:"is_private,omitempty"`
}
