package validator

import (
	"strings"
	"testing"

	"slotly/pkg/logger"
	"slotly/pkg/model"
)

func newTestValidator() *AvailabilityValidator {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "availability-test"})
	return NewAvailabilityValidator(log, 30)
}

func fullWeek(start, end string) *model.WeeklyAvailability {
	days := make(map[model.Weekday]model.DayWindow, len(model.WeekOrder))
	for _, day := range model.WeekOrder {
		days[day] = model.DayWindow{IsAvailable: true, StartTime: start, EndTime: end}
	}
	return &model.WeeklyAvailability{HostID: "host-1", Days: days}
}

func TestValidateWeekly(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *model.WeeklyAvailability)
		wantErr string
	}{
		{
			name:   "valid full week",
			mutate: func(a *model.WeeklyAvailability) {},
		},
		{
			name: "missing host id",
			mutate: func(a *model.WeeklyAvailability) {
				a.HostID = ""
			},
			wantErr: "required",
		},
		{
			name: "missing weekday",
			mutate: func(a *model.WeeklyAvailability) {
				delete(a.Days, model.Wednesday)
			},
			wantErr: "all seven weekdays must be present",
		},
		{
			name: "unparseable start time",
			mutate: func(a *model.WeeklyAvailability) {
				a.Days[model.Monday] = model.DayWindow{IsAvailable: true, StartTime: "late", EndTime: "17:00"}
			},
			wantErr: "HH:MM",
		},
		{
			name: "start after end on available day",
			mutate: func(a *model.WeeklyAvailability) {
				a.Days[model.Monday] = model.DayWindow{IsAvailable: true, StartTime: "17:00", EndTime: "09:00"}
			},
			wantErr: "start_time must be before end_time",
		},
		{
			name: "start equals end on available day",
			mutate: func(a *model.WeeklyAvailability) {
				a.Days[model.Monday] = model.DayWindow{IsAvailable: true, StartTime: "09:00", EndTime: "09:00"}
			},
			wantErr: "start_time must be before end_time",
		},
		{
			name: "misaligned window edge",
			mutate: func(a *model.WeeklyAvailability) {
				a.Days[model.Monday] = model.DayWindow{IsAvailable: true, StartTime: "09:10", EndTime: "17:00"}
			},
			wantErr: "granularity",
		},
		{
			name: "inverted window tolerated on unavailable day",
			mutate: func(a *model.WeeklyAvailability) {
				a.Days[model.Sunday] = model.DayWindow{IsAvailable: false, StartTime: "17:00", EndTime: "09:00"}
			},
		},
		{
			name: "unparseable time rejected even on unavailable day",
			mutate: func(a *model.WeeklyAvailability) {
				a.Days[model.Sunday] = model.DayWindow{IsAvailable: false, StartTime: "??:??", EndTime: "09:00"}
			},
			wantErr: "HH:MM",
		},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avail := fullWeek("09:00", "17:00")
			tt.mutate(avail)

			err := v.Validate(avail)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateGap(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateGap(&model.TimeGap{HostID: "host-1", Minutes: 120}); err != nil {
		t.Errorf("expected valid gap, got %v", err)
	}
	if err := v.ValidateGap(&model.TimeGap{HostID: "host-1", Minutes: 0}); err != nil {
		t.Errorf("expected zero gap to be valid, got %v", err)
	}
	if err := v.ValidateGap(&model.TimeGap{HostID: "host-1", Minutes: -5}); err == nil {
		t.Error("expected error for negative gap")
	}
	if err := v.ValidateGap(&model.TimeGap{HostID: "host-1", Minutes: 20000}); err == nil {
		t.Error("expected error for gap above one week")
	}
	if err := v.ValidateGap(&model.TimeGap{Minutes: 60}); err == nil {
		t.Error("expected error for missing host id")
	}
}
