package slots

import (
	"fmt"
	"time"

	apperrors "slotly/pkg/errors"
	"slotly/pkg/model"
)

// DateLayout is the calendar-date format accepted on the slots endpoint.
const DateLayout = "2006-01-02"

// Generate computes the offerable slot starts for one event on one calendar
// date. It is a pure function: the clock is injected and nothing is read or
// written outside the arguments, so the same inputs always yield the same
// candidates.
//
// The walk starts at the day window's opening edge and advances in whole
// event durations while the full interval still fits inside the window. A
// candidate is dropped when it overlaps a non-cancelled booking (half-open
// intervals, so back-to-back slots touch without conflict) or when it starts
// before now plus the host's minimum-notice gap. Output is strictly
// ascending by construction.
//
// An unavailable weekday yields an empty result, not an error. A malformed
// window on an available day is a host configuration fault and surfaces as a
// configuration error.
func Generate(
	avail *model.WeeklyAvailability,
	gap model.TimeGap,
	event *model.EventType,
	date string,
	existing []*model.Booking,
	now time.Time,
) ([]model.SlotCandidate, error) {
	day, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("date must be in YYYY-MM-DD format, got: %s", date))
	}

	window := avail.Window(model.WeekdayOf(day))
	if !window.IsAvailable {
		return nil, nil
	}

	startMin, err := model.ParseDayTime(window.StartTime)
	if err != nil {
		return nil, apperrors.Configuration("Day window start time is malformed", map[string]any{
			"start_time": window.StartTime,
		})
	}
	endMin, err := model.ParseDayTime(window.EndTime)
	if err != nil {
		return nil, apperrors.Configuration("Day window end time is malformed", map[string]any{
			"end_time": window.EndTime,
		})
	}
	if startMin >= endMin {
		return nil, apperrors.Configuration("Day window start must be before end", map[string]any{
			"start_time": window.StartTime,
			"end_time":   window.EndTime,
		})
	}

	durationMin := event.DurationMinutes
	if durationMin <= 0 {
		return nil, apperrors.Configuration("Event duration must be positive", map[string]any{
			"duration_minutes": durationMin,
		})
	}

	earliest := now.Add(gap.Duration())

	var candidates []model.SlotCandidate
	for m := startMin; m+durationMin <= endMin; m += durationMin {
		startAt := day.Add(time.Duration(m) * time.Minute)
		endAt := startAt.Add(time.Duration(durationMin) * time.Minute)

		if startAt.Before(earliest) {
			continue
		}
		if overlapsAny(existing, startAt, endAt) {
			continue
		}

		candidates = append(candidates, model.SlotCandidate{
			Date:    date,
			Start:   model.FormatDayTime(m),
			End:     model.FormatDayTime(m + durationMin),
			StartAt: startAt,
			EndAt:   endAt,
		})
	}

	return candidates, nil
}

func overlapsAny(bookings []*model.Booking, start, end time.Time) bool {
	for _, b := range bookings {
		if b == nil || b.Status == model.BookingCancelled {
			continue
		}
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
