package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "slotly/internal/bookings/errors"
	"slotly/internal/bookings/repository"
	"slotly/internal/bookings/slots"
	"slotly/internal/bookings/validator"
	"slotly/pkg/config"
	apperrors "slotly/pkg/errors"
	"slotly/pkg/model"
	"slotly/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// EventSource resolves event type definitions, normally over HTTP from the
// events service. A nil event with a nil error means the event does not exist.
type EventSource interface {
	GetByID(ctx context.Context, id string) (*model.EventType, error)
}

// AvailabilitySource reads a host's weekly pattern and minimum-notice gap,
// normally over HTTP from the availability service.
type AvailabilitySource interface {
	GetWeekly(ctx context.Context, hostID string) (*model.WeeklyAvailability, error)
	GetGap(ctx context.Context, hostID string) (*model.TimeGap, error)
}

// MeetingProvisioner obtains a meeting link for a confirmed booking from the
// external provider. Optional; failures never affect the reservation.
type MeetingProvisioner interface {
	Provision(ctx context.Context, eventID, guestEmail string, start, end time.Time) (string, error)
}

type BookingService interface {
	GetSlots(ctx context.Context, eventID string, date string) ([]model.SlotCandidate, error)
	Reserve(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByEvent(ctx context.Context, eventID string, date string, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string) error
}

type bookingService struct {
	repo         repository.BookingRepository
	lockRepo     repository.BookingLockRepository
	validator    *validator.BookingValidator
	events       EventSource
	availability AvailabilitySource
	meetings     MeetingProvisioner
	publisher    BookingPublisher
	cfg          *config.Config
	now          func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	validator *validator.BookingValidator,
	events EventSource,
	availability AvailabilitySource,
	meetings MeetingProvisioner,
	publisher BookingPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		lockRepo:     lockRepo,
		validator:    validator,
		events:       events,
		availability: availability,
		meetings:     meetings,
		publisher:    publisher,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// GetSlots computes the offerable starts for an event on a date. The result
// is advisory: a slot shown here can still be lost to a faster guest, which
// Reserve reports as a slot-unavailable conflict.
func (s *bookingService) GetSlots(ctx context.Context, eventID string, date string) ([]model.SlotCandidate, error) {
	if eventID == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}
	if date == "" {
		return nil, apperrors.InvalidInput("Date must be provided in YYYY-MM-DD format")
	}

	event, avail, gap, err := s.loadSlotInputs(ctx, eventID)
	if err != nil {
		return nil, err
	}

	existing, err := s.findBookingsOnDate(ctx, eventID, date)
	if err != nil {
		return nil, err
	}

	candidates, err := slots.Generate(avail, *gap, event, date, existing, s.now())
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Debug("Slot candidates computed",
		"event_id", eventID,
		"date", date,
		"count", len(candidates),
	)
	return candidates, nil
}

// Reserve validates the request, proves the requested start is currently
// offered, then commits the booking under an advisory lock and a transaction
// so at most one guest wins any overlapping interval.
func (s *bookingService) Reserve(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	s.sanitizeRequest(req)

	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve event type", "event_id", req.EventID, "error", err)
		return nil, apperrors.Internal("Failed to resolve event type", err)
	}
	if event == nil {
		return nil, apperrors.NotFoundWithID("Event type", req.EventID)
	}

	if err := s.validator.ValidateRequest(req, event.Duration()); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "event_id", req.EventID, "error", err)
		return nil, apperrors.Validation("Booking request validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	// Membership is re-derived server-side; the client's claim that the
	// slot was offered is never trusted.
	if err := s.verifySlotOffered(ctx, event, req); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		EventID:        req.EventID,
		GuestName:      req.GuestName,
		GuestEmail:     req.GuestEmail,
		StartTime:      req.StartTime.UTC(),
		EndTime:        req.EndTime.UTC(),
		AdditionalInfo: req.AdditionalInfo,
		Status:         model.BookingConfirmed,
	}

	lockID := model.BookingLockID(req.EventID, booking.StartTime)
	if err := s.acquireSlotLock(ctx, lockID); err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		overlapping, err := s.repo.FindOverlapping(sessCtx, booking.EventID, booking.StartTime, booking.EndTime)
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}
		if len(overlapping) > 0 {
			return apperrors.SlotUnavailable(fmt.Sprintf(
				"Slot %s is no longer available",
				booking.StartTime.Format(time.RFC3339),
			))
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reserve booking",
			"event_id", booking.EventID,
			"start_time", booking.StartTime,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Booking reserved successfully",
		"id", booking.ID,
		"event_id", booking.EventID,
		"start_time", booking.StartTime,
		"guest_email", booking.GuestEmail,
	)

	// Post-commit side effects. The booking is durable; neither a missing
	// meeting link nor a failed publish rolls it back.
	s.provisionMeeting(ctx, event, booking)
	s.publishConfirmed(ctx, event, booking)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetByEvent(ctx context.Context, eventID string, date string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if eventID == "" {
		return nil, 0, apperrors.InvalidInput("Event ID cannot be empty")
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var dayStart, dayEnd *time.Time
	if date != "" {
		day, err := time.ParseInLocation(slots.DateLayout, date, time.UTC)
		if err != nil {
			return nil, 0, apperrors.InvalidInput(fmt.Sprintf("date must be in YYYY-MM-DD format, got: %s", date))
		}
		end := day.AddDate(0, 0, 1)
		dayStart, dayEnd = &day, &end
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByEvent(ctx, eventID, dayStart, dayEnd)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "event_id", eventID, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByEvent(ctx, eventID, dayStart, dayEnd, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"event_id", eventID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return bookings, count, nil
}

// Cancel flips a booking to cancelled. The interval is never mutated, so the
// historical record keeps its original shape; the slot opens up because
// cancelled bookings no longer count in overlap checks. Cancelling an
// already-cancelled booking is a no-op.
func (s *bookingService) Cancel(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.Status == model.BookingCancelled {
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, id, model.BookingCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled successfully", "id", id, "event_id", booking.EventID)

	if s.publisher != nil {
		booking.Status = model.BookingCancelled
		hostID := ""
		if event, eventErr := s.events.GetByID(ctx, booking.EventID); eventErr == nil && event != nil {
			hostID = event.HostID
		}
		if err := s.publisher.BookingCancelled(ctx, booking, hostID); err != nil {
			s.cfg.Log.Warn("Failed to publish booking.cancelled event", "id", id, "error", err)
		}
	}

	return nil
}

// --- Helpers ---

func (s *bookingService) sanitizeRequest(req *model.BookingRequest) {
	req.EventID = sanitizer.TrimAndNormalize(req.EventID)
	req.GuestName = sanitizer.NormalizeName(req.GuestName)
	req.GuestEmail = sanitizer.NormalizeEmail(req.GuestEmail)
	req.AdditionalInfo = sanitizer.NormalizeFreeText(req.AdditionalInfo)
}

func (s *bookingService) loadSlotInputs(ctx context.Context, eventID string) (*model.EventType, *model.WeeklyAvailability, *model.TimeGap, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve event type", "event_id", eventID, "error", err)
		return nil, nil, nil, apperrors.Internal("Failed to resolve event type", err)
	}
	if event == nil {
		return nil, nil, nil, apperrors.NotFoundWithID("Event type", eventID)
	}

	avail, err := s.availability.GetWeekly(ctx, event.HostID)
	if err != nil {
		s.cfg.Log.Error("Failed to load availability", "host_id", event.HostID, "error", err)
		return nil, nil, nil, apperrors.Internal("Failed to load host availability", err)
	}

	gap, err := s.availability.GetGap(ctx, event.HostID)
	if err != nil {
		s.cfg.Log.Error("Failed to load time gap", "host_id", event.HostID, "error", err)
		return nil, nil, nil, apperrors.Internal("Failed to load host time gap", err)
	}

	return event, avail, gap, nil
}

func (s *bookingService) findBookingsOnDate(ctx context.Context, eventID string, date string) ([]*model.Booking, error) {
	day, err := time.ParseInLocation(slots.DateLayout, date, time.UTC)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("date must be in YYYY-MM-DD format, got: %s", date))
	}
	dayEnd := day.AddDate(0, 0, 1)

	existing, err := s.repo.FindOverlapping(ctx, eventID, day, dayEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for date", "event_id", eventID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to load existing bookings", err)
	}
	return existing, nil
}

// verifySlotOffered regenerates the candidate set for the requested date and
// requires an exact start match.
func (s *bookingService) verifySlotOffered(ctx context.Context, event *model.EventType, req *model.BookingRequest) error {
	avail, err := s.availability.GetWeekly(ctx, event.HostID)
	if err != nil {
		return apperrors.Internal("Failed to load host availability", err)
	}
	gap, err := s.availability.GetGap(ctx, event.HostID)
	if err != nil {
		return apperrors.Internal("Failed to load host time gap", err)
	}

	date := req.StartTime.UTC().Format(slots.DateLayout)
	existing, err := s.findBookingsOnDate(ctx, event.ID, date)
	if err != nil {
		return err
	}

	candidates, err := slots.Generate(avail, *gap, event, date, existing, s.now())
	if err != nil {
		return err
	}

	for _, c := range candidates {
		if c.StartAt.Equal(req.StartTime.UTC()) {
			return nil
		}
	}
	return apperrors.SlotNotOffered(fmt.Sprintf(
		"Start time %s is not an offered slot for this event on %s",
		req.StartTime.UTC().Format(time.RFC3339), date,
	))
}

// acquireSlotLock creates an advisory lock to prevent concurrent booking
// creation on the same (event, start) coordinate.
func (s *bookingService) acquireSlotLock(ctx context.Context, lockID string) error {
	if err := s.lockRepo.Acquire(ctx, lockID, s.cfg.BookingLockTTL); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.SlotUnavailable("This time slot is currently being booked by another request. Please try again.")
		}
		return apperrors.Internal("Failed to acquire booking lock", err)
	}
	return nil
}

func (s *bookingService) provisionMeeting(ctx context.Context, event *model.EventType, booking *model.Booking) {
	if s.meetings == nil {
		return
	}

	meetingURL, err := s.meetings.Provision(ctx, event.ID, booking.GuestEmail, booking.StartTime, booking.EndTime)
	if err != nil {
		s.cfg.Log.Warn("Failed to provision meeting link", "booking_id", booking.ID, "error", err)
		return
	}
	if meetingURL == "" {
		return
	}

	booking.MeetingURL = meetingURL
	if err := s.repo.SetMeetingURL(ctx, booking.ID, meetingURL); err != nil {
		s.cfg.Log.Warn("Failed to store meeting link", "booking_id", booking.ID, "error", err)
	}
}

func (s *bookingService) publishConfirmed(ctx context.Context, event *model.EventType, booking *model.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.BookingConfirmed(ctx, booking, event.HostID); err != nil {
		s.cfg.Log.Warn("Failed to publish booking.confirmed event", "booking_id", booking.ID, "error", err)
	}
}
