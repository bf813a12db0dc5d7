package model

import (
	"fmt"
	"time"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// WeekOrder lists the seven weekday keys in host-facing order.
var WeekOrder = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf maps a calendar date to its weekly availability key.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// DayWindow is a weekday's configured open/close wall-clock range. When the
// day is unavailable the times are ignored but retained as defaults for when
// the host re-enables it.
type DayWindow struct {
	IsAvailable bool   `json:"is_available" bson:"is_available"`
	StartTime   string `json:"start_time" bson:"start_time" validate:"required,day_time"`
	EndTime     string `json:"end_time" bson:"end_time" validate:"required,day_time"`
}

type WeeklyAvailability struct {
	HostID    string                `json:"host_id" bson:"_id" validate:"required,min=1,max=100"`
	Days      map[Weekday]DayWindow `json:"days" bson:"days" validate:"required"`
	UpdatedAt time.Time             `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Window returns the configured window for a weekday. Missing keys behave as
// an unavailable day rather than an error.
func (a *WeeklyAvailability) Window(day Weekday) DayWindow {
	if a == nil || a.Days == nil {
		return DayWindow{}
	}
	return a.Days[day]
}

// TimeGap is the minimum lead time in minutes between "now" and the earliest
// bookable slot on the current day.
type TimeGap struct {
	HostID  string `json:"host_id" bson:"_id" validate:"required,min=1,max=100"`
	Minutes int    `json:"minutes" bson:"minutes" validate:"min=0,max=10080"`
}

func (g TimeGap) Duration() time.Duration {
	return time.Duration(g.Minutes) * time.Minute
}

// ParseDayTime parses a wall-clock "HH:MM" value into minutes since midnight.
func ParseDayTime(s string) (int, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
		return 0, fmt.Errorf("invalid wall-clock time %q: %w", s, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid wall-clock time %q", s)
	}
	return hh*60 + mm, nil
}

// FormatDayTime renders minutes since midnight as "HH:MM".
func FormatDayTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
