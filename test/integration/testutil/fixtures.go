package testutil

import (
	"time"

	"slotly/pkg/model"
)

type EventTypeBuilder struct {
	event model.EventType
}

func NewEventTypeBuilder() *EventTypeBuilder {
	return &EventTypeBuilder{
		event: model.EventType{
			HostID:          "host-integration",
			Title:           "Intro Call",
			Description:     "Thirty minute introduction",
			DurationMinutes: 30,
		},
	}
}

func (b *EventTypeBuilder) WithHost(hostID string) *EventTypeBuilder {
	b.event.HostID = hostID
	return b
}

func (b *EventTypeBuilder) WithTitle(title string) *EventTypeBuilder {
	b.event.Title = title
	return b
}

func (b *EventTypeBuilder) WithDuration(minutes int) *EventTypeBuilder {
	b.event.DurationMinutes = minutes
	return b
}

func (b *EventTypeBuilder) WithPrivate(private bool) *EventTypeBuilder {
	b.event.IsPrivate = private
	return b
}

func (b *EventTypeBuilder) Build() model.EventType {
	return b.event
}

func ValidEventType() model.EventType {
	return NewEventTypeBuilder().Build()
}

// OpenWeek returns a weekly pattern with every day available over the given
// wall-clock window.
func OpenWeek(hostID, start, end string) model.WeeklyAvailability {
	days := make(map[model.Weekday]model.DayWindow, len(model.WeekOrder))
	for _, day := range model.WeekOrder {
		days[day] = model.DayWindow{
			IsAvailable: true,
			StartTime:   start,
			EndTime:     end,
		}
	}
	return model.WeeklyAvailability{
		HostID: hostID,
		Days:   days,
	}
}

// BookingFor builds a request for a slot starting at the given time.
func BookingFor(eventID string, start time.Time, duration time.Duration) model.BookingRequest {
	return model.BookingRequest{
		EventID:    eventID,
		GuestName:  "Dana Guest",
		GuestEmail: "dana@example.com",
		StartTime:  start,
		EndTime:    start.Add(duration),
	}
}

// NextWeekday returns the first date strictly after from that falls on the
// given weekday, formatted YYYY-MM-DD, together with the day's midnight UTC.
func NextWeekday(from time.Time, weekday time.Weekday) (string, time.Time) {
	d := from.UTC()
	for {
		d = d.AddDate(0, 0, 1)
		if d.Weekday() == weekday {
			midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
			return midnight.Format("2006-01-02"), midnight
		}
	}
}
