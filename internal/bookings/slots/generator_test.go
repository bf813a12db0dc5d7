package slots

import (
	"testing"
	"time"

	apperrors "slotly/pkg/errors"
	"slotly/pkg/model"
)

// 2024-06-03 is a Monday.
const mondayDate = "2024-06-03"

func mondayAvailability(start, end string) *model.WeeklyAvailability {
	days := make(map[model.Weekday]model.DayWindow, len(model.WeekOrder))
	for _, day := range model.WeekOrder {
		days[day] = model.DayWindow{
			IsAvailable: day == model.Monday,
			StartTime:   start,
			EndTime:     end,
		}
	}
	return &model.WeeklyAvailability{HostID: "host-1", Days: days}
}

func hourEvent() *model.EventType {
	return &model.EventType{
		ID:              "665d000000000000000000aa",
		HostID:          "host-1",
		Title:           "Intro call",
		DurationMinutes: 60,
	}
}

func at(t *testing.T, date, clock string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		t.Fatalf("bad test time %s %s: %v", date, clock, err)
	}
	return parsed.UTC()
}

func confirmedBooking(t *testing.T, start, end string) *model.Booking {
	t.Helper()
	return &model.Booking{
		ID:        "665d000000000000000000bb",
		EventID:   "665d000000000000000000aa",
		StartTime: at(t, mondayDate, start),
		EndTime:   at(t, mondayDate, end),
		Status:    model.BookingConfirmed,
	}
}

func slotStarts(candidates []model.SlotCandidate) []string {
	starts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		starts = append(starts, c.Start)
	}
	return starts
}

func TestGenerate_FullOpenDay(t *testing.T) {
	avail := mondayAvailability("09:00", "17:00")
	now := at(t, "2024-05-01", "12:00")

	candidates, err := Generate(avail, model.TimeGap{}, hourEvent(), mondayDate, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}
	got := slotStarts(candidates)
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestGenerate_UnavailableDayIsEmpty(t *testing.T) {
	avail := mondayAvailability("09:00", "17:00")
	now := at(t, "2024-05-01", "12:00")

	// 2024-06-04 is a Tuesday, which the pattern marks unavailable.
	candidates, err := Generate(avail, model.TimeGap{}, hourEvent(), "2024-06-04", nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no slots on unavailable day, got %v", slotStarts(candidates))
	}
}

func TestGenerate_ExistingBookingRemovesSlot(t *testing.T) {
	avail := mondayAvailability("09:00", "17:00")
	now := at(t, "2024-05-01", "12:00")
	existing := []*model.Booking{confirmedBooking(t, "10:00", "11:00")}

	candidates, err := Generate(avail, model.TimeGap{}, hourEvent(), mondayDate, existing, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, c := range candidates {
		if c.Start == "10:00" {
			t.Errorf("booked slot 10:00 should not be offered")
		}
	}
	if len(candidates) != 7 {
		t.Errorf("expected 7 remaining slots, got %d: %v", len(candidates), slotStarts(candidates))
	}
}

func TestGenerate_CancelledBookingDoesNotBlock(t *testing.T) {
	avail := mondayAvailability("09:00", "17:00")
	now := at(t, "2024-05-01", "12:00")
	cancelled := confirmedBooking(t, "10:00", "11:00")
	cancelled.Status = model.BookingCancelled

	candidates, err := Generate(avail, model.TimeGap{}, hourEvent(), mondayDate, []*model.Booking{cancelled}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 8 {
		t.Errorf("cancelled booking must not consume a slot, got %d slots", len(candidates))
	}
}

func TestGenerate_BackToBackBookingsTouchWithoutConflict(t *testing.T) {
	avail := mondayAvailability("09:00", "17:00")
	now := at(t, "2024-05-01", "12:00")
	existing := []*model.Booking{confirmedBooking(t, "09:00", "10:00")}

	candidates, err := Generate(avail, model.TimeGap{}, hourEvent(), mondayDate, existing, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := slotStarts(candidates)
	if len(got) == 0 || got[0] != "10:00" {
		t.Fatalf("slot starting exactly at a booking's end must survive, got %v", got)
	}
}

func TestGenerate_SameDayGapFiltersEarlySlots(t *testing.T) {
	avail := mondayAvailability("09:00", "17:00")
	now := at(t, mondayDate, "08:50")
	gap := model.TimeGap{HostID: "host-1", Minutes: 30}

	candidates, err := Generate(avail, gap, hourEvent(), mondayDate, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := slotStarts(candidates)
	// 09:00 is before 08:50 + 30m, so the first offerable start is 10:00.
	if len(got) == 0 || got[0] != "10:00" {
		t.Fatalf("expected first slot 10:00 under minimum notice, got %v", got)
	}
	if len(got) != 7 {
		t.Errorf("expected 7 slots, got %d", len(got))
	}
}

func TestGenerate_SlotsFitInsideWindow(t *testing.T) {
	avail := mondayAvailability("09:00", "17:00")
	now := at(t, "2024-05-01", "12:00")
	event := hourEvent()
	event.DurationMinutes = 45

	candidates, err := Generate(avail, model.TimeGap{}, event, mondayDate, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected candidates")
	}

	windowEnd := at(t, mondayDate, "17:00")
	for _, c := range candidates {
		if !c.EndAt.Equal(c.StartAt.Add(45 * time.Minute)) {
			t.Errorf("slot %s: end must equal start plus duration", c.Start)
		}
		if c.EndAt.After(windowEnd) {
			t.Errorf("slot %s: end %s exceeds window end", c.Start, c.End)
		}
	}
}

func TestGenerate_StrictlyAscending(t *testing.T) {
	avail := mondayAvailability("09:00", "17:00")
	now := at(t, "2024-05-01", "12:00")

	candidates, err := Generate(avail, model.TimeGap{}, hourEvent(), mondayDate, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(candidates); i++ {
		if !candidates[i-1].StartAt.Before(candidates[i].StartAt) {
			t.Errorf("candidates out of order at index %d", i)
		}
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	avail := mondayAvailability("09:00", "17:00")
	now := at(t, "2024-05-01", "12:00")
	existing := []*model.Booking{confirmedBooking(t, "11:00", "12:00")}

	first, err := Generate(avail, model.TimeGap{Minutes: 15}, hourEvent(), mondayDate, existing, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Generate(avail, model.TimeGap{Minutes: 15}, hourEvent(), mondayDate, existing, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("expected identical results, got %d and %d slots", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("slot %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGenerate_MalformedWindowIsConfigurationError(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"start after end", "17:00", "09:00"},
		{"start equals end", "09:00", "09:00"},
		{"unparseable start", "nine", "17:00"},
		{"unparseable end", "09:00", "25:99"},
	}

	now := at(t, "2024-05-01", "12:00")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avail := mondayAvailability(tt.start, tt.end)
			_, err := Generate(avail, model.TimeGap{}, hourEvent(), mondayDate, nil, now)
			if err == nil {
				t.Fatal("expected configuration error")
			}
			if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConfiguration {
				t.Errorf("expected %s, got %v", apperrors.CodeConfiguration, err)
			}
		})
	}
}

func TestGenerate_BadDateIsInvalidInput(t *testing.T) {
	avail := mondayAvailability("09:00", "17:00")
	now := at(t, "2024-05-01", "12:00")

	_, err := Generate(avail, model.TimeGap{}, hourEvent(), "03-06-2024", nil, now)
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected %s, got %v", apperrors.CodeInvalidInput, err)
	}
}
