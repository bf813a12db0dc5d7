package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"slotly/internal/bookings/validator"
	"slotly/pkg/config"
	mongotx "slotly/pkg/db/mongo"
	apperrors "slotly/pkg/errors"
	"slotly/pkg/logger"
	"slotly/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Mock repository for testing
type mockBookingRepository struct {
	createFunc          func(ctx context.Context, booking *model.Booking) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Booking, error)
	findOverlappingFunc func(ctx context.Context, eventID string, start, end time.Time) ([]*model.Booking, error)
	findByEventFunc     func(ctx context.Context, eventID string, dayStart, dayEnd *time.Time, limit int, offset int64) ([]*model.Booking, error)
	countByEventFunc    func(ctx context.Context, eventID string, dayStart, dayEnd *time.Time) (int64, error)
	updateStatusFunc    func(ctx context.Context, id string, status string) error
	setMeetingURLFunc   func(ctx context.Context, id string, meetingURL string) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "665d0000000000000000cafe"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, eventID string, start, end time.Time) ([]*model.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, eventID, start, end)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindByEvent(ctx context.Context, eventID string, dayStart, dayEnd *time.Time, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByEventFunc != nil {
		return m.findByEventFunc(ctx, eventID, dayStart, dayEnd, limit, offset)
	}
	return nil, nil
}

func (m *mockBookingRepository) CountByEvent(ctx context.Context, eventID string, dayStart, dayEnd *time.Time) (int64, error) {
	if m.countByEventFunc != nil {
		return m.countByEventFunc(ctx, eventID, dayStart, dayEnd)
	}
	return 0, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) SetMeetingURL(ctx context.Context, id string, meetingURL string) error {
	if m.setMeetingURLFunc != nil {
		return m.setMeetingURLFunc(ctx, id, meetingURL)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	mu    sync.Mutex
	locks map[string]bool
}

func newMockLockRepository() *mockLockRepository {
	return &mockLockRepository{locks: make(map[string]bool)}
}

func (m *mockLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[lockID] {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	m.locks[lockID] = true
	return nil
}

func (m *mockLockRepository) Release(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, lockID)
	return nil
}

type mockEventSource struct {
	getByIDFunc func(ctx context.Context, id string) (*model.EventType, error)
}

func (m *mockEventSource) GetByID(ctx context.Context, id string) (*model.EventType, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

type mockAvailabilitySource struct {
	weekly *model.WeeklyAvailability
	gap    *model.TimeGap
}

func (m *mockAvailabilitySource) GetWeekly(ctx context.Context, hostID string) (*model.WeeklyAvailability, error) {
	return m.weekly, nil
}

func (m *mockAvailabilitySource) GetGap(ctx context.Context, hostID string) (*model.TimeGap, error) {
	if m.gap != nil {
		return m.gap, nil
	}
	return &model.TimeGap{HostID: hostID}, nil
}

type mockPublisher struct {
	mu        sync.Mutex
	confirmed []string
	cancelled []string
}

func (m *mockPublisher) BookingConfirmed(ctx context.Context, booking *model.Booking, hostID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmed = append(m.confirmed, booking.ID)
	return nil
}

func (m *mockPublisher) BookingCancelled(ctx context.Context, booking *model.Booking, hostID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled = append(m.cancelled, booking.ID)
	return nil
}

const testEventID = "665d000000000000000000aa"

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		BookingLockTTL: 10 * time.Second,
	}
}

func testEvent() *model.EventType {
	return &model.EventType{
		ID:              testEventID,
		HostID:          "host-1",
		Title:           "Intro call",
		DurationMinutes: 60,
	}
}

func openAvailability() *model.WeeklyAvailability {
	days := make(map[model.Weekday]model.DayWindow, len(model.WeekOrder))
	for _, day := range model.WeekOrder {
		days[day] = model.DayWindow{IsAvailable: true, StartTime: "09:00", EndTime: "17:00"}
	}
	return &model.WeeklyAvailability{HostID: "host-1", Days: days}
}

func newTestService(repo *mockBookingRepository, locks *mockLockRepository, publisher BookingPublisher) *bookingService {
	cfg := testConfig()
	return &bookingService{
		repo:      repo,
		lockRepo:  locks,
		validator: validator.NewBookingValidator(cfg.Log),
		events: &mockEventSource{getByIDFunc: func(ctx context.Context, id string) (*model.EventType, error) {
			if id == testEventID {
				return testEvent(), nil
			}
			return nil, nil
		}},
		availability: &mockAvailabilitySource{weekly: openAvailability()},
		publisher:    publisher,
		cfg:          cfg,
		now: func() time.Time {
			return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

func requestAt(start time.Time) *model.BookingRequest {
	return &model.BookingRequest{
		EventID:    testEventID,
		GuestName:  "Ada Lovelace",
		GuestEmail: "ada@example.com",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
	}
}

func TestReserve_Success(t *testing.T) {
	publisher := &mockPublisher{}
	svc := newTestService(&mockBookingRepository{}, newMockLockRepository(), publisher)

	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	booking, err := svc.Reserve(context.Background(), requestAt(start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.BookingConfirmed {
		t.Errorf("expected status %s, got %s", model.BookingConfirmed, booking.Status)
	}
	if !booking.EndTime.Equal(start.Add(time.Hour)) {
		t.Errorf("expected end %s, got %s", start.Add(time.Hour), booking.EndTime)
	}
	if booking.ID == "" {
		t.Error("expected booking ID to be set")
	}
	if len(publisher.confirmed) != 1 {
		t.Errorf("expected one booking.confirmed event, got %d", len(publisher.confirmed))
	}
}

func TestReserve_SlotNotOffered(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, newMockLockRepository(), nil)

	// 09:17 is inside the window but not on the duration walk.
	start := time.Date(2024, 6, 3, 9, 17, 0, 0, time.UTC)
	_, err := svc.Reserve(context.Background(), requestAt(start))
	if err == nil {
		t.Fatal("expected error for unoffered start")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeSlotNotOffered {
		t.Errorf("expected %s, got %v", apperrors.CodeSlotNotOffered, err)
	}
}

func TestReserve_UnknownEvent(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, newMockLockRepository(), nil)

	req := requestAt(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))
	req.EventID = "665d0000000000000000dead"
	_, err := svc.Reserve(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for unknown event")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestReserve_ValidationError(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, newMockLockRepository(), nil)

	req := requestAt(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))
	req.GuestEmail = "not-an-email"
	_, err := svc.Reserve(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestReserve_DurationMismatch(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, newMockLockRepository(), nil)

	req := requestAt(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))
	req.EndTime = req.StartTime.Add(30 * time.Minute)
	_, err := svc.Reserve(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error for duration mismatch")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestReserve_OverlapInsideTransaction(t *testing.T) {
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	taken := &model.Booking{
		ID:        "665d0000000000000000beef",
		EventID:   testEventID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    model.BookingConfirmed,
	}

	// The slot check sees an empty day, then the booking appears before the
	// transaction re-check: the classic lost race.
	var calls int
	var mu sync.Mutex
	repo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, eventID string, s, e time.Time) ([]*model.Booking, error) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if calls == 1 {
				return nil, nil
			}
			if taken.Overlaps(s, e) {
				return []*model.Booking{taken}, nil
			}
			return nil, nil
		},
	}

	svc := newTestService(repo, newMockLockRepository(), nil)
	_, err := svc.Reserve(context.Background(), requestAt(start))
	if err == nil {
		t.Fatal("expected conflict")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeSlotUnavailable {
		t.Errorf("expected %s, got %v", apperrors.CodeSlotUnavailable, err)
	}
}

// Two guests race for 2024-06-03T09:00Z. Exactly one booking must exist
// afterwards; the loser gets a slot-unavailable conflict.
func TestReserve_TwoConcurrentRacers(t *testing.T) {
	var mu sync.Mutex
	var stored []*model.Booking

	// Both racers must pass the slot-membership check before either reaches
	// the lock, so the loser fails at reservation time rather than seeing
	// the winner's booking during validation.
	var validated sync.WaitGroup
	validated.Add(2)

	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			mu.Lock()
			defer mu.Unlock()
			booking.ID = "665d0000000000000000cafe"
			copied := *booking
			stored = append(stored, &copied)
			return nil
		},
		findOverlappingFunc: func(ctx context.Context, eventID string, s, e time.Time) ([]*model.Booking, error) {
			if ctx != nil {
				// Pre-transaction candidate check: hold until both
				// racers have seen the slot as free.
				validated.Done()
				validated.Wait()
				return nil, nil
			}
			mu.Lock()
			defer mu.Unlock()
			var out []*model.Booking
			for _, b := range stored {
				if b.EventID == eventID && b.Status == model.BookingConfirmed && b.Overlaps(s, e) {
					out = append(out, b)
				}
			}
			return out, nil
		},
	}

	svc := newTestService(repo, newMockLockRepository(), nil)
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), requestAt(start))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if appErr := apperrors.AsAppError(err); appErr.Code == apperrors.CodeSlotUnavailable {
			conflicts++
		} else {
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 || conflicts != 1 {
		t.Errorf("expected exactly one winner and one conflict, got %d winners and %d conflicts", successes, conflicts)
	}
	if len(stored) != 1 {
		t.Errorf("expected exactly one stored booking, got %d", len(stored))
	}
}

func TestGetSlots_BookedSlotHiddenUntilCancelled(t *testing.T) {
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	booked := &model.Booking{
		ID:        "665d0000000000000000beef",
		EventID:   testEventID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    model.BookingConfirmed,
	}

	repo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, eventID string, s, e time.Time) ([]*model.Booking, error) {
			if booked.Status == model.BookingConfirmed && booked.Overlaps(s, e) {
				return []*model.Booking{booked}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo, newMockLockRepository(), nil)

	candidates, err := svc.GetSlots(context.Background(), testEventID, "2024-06-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range candidates {
		if c.Start == "10:00" {
			t.Error("booked slot 10:00 should be hidden")
		}
	}

	booked.Status = model.BookingCancelled
	candidates, err = svc.GetSlots(context.Background(), testEventID, "2024-06-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found bool
	for _, c := range candidates {
		if c.Start == "10:00" {
			found = true
		}
	}
	if !found {
		t.Error("slot 10:00 should reopen once the booking is cancelled")
	}
}

func TestCancel_FlipsStatusAndIsIdempotent(t *testing.T) {
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	booking := &model.Booking{
		ID:        "665d0000000000000000cafe",
		EventID:   testEventID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    model.BookingConfirmed,
	}

	var statusUpdates int
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			copied := *booking
			return &copied, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status string) error {
			statusUpdates++
			booking.Status = status
			return nil
		},
	}

	publisher := &mockPublisher{}
	svc := newTestService(repo, newMockLockRepository(), publisher)

	if err := svc.Cancel(context.Background(), booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.BookingCancelled {
		t.Errorf("expected status %s, got %s", model.BookingCancelled, booking.Status)
	}
	if !booking.StartTime.Equal(start) || !booking.EndTime.Equal(start.Add(time.Hour)) {
		t.Error("cancellation must not mutate the booked interval")
	}
	if len(publisher.cancelled) != 1 {
		t.Errorf("expected one booking.cancelled event, got %d", len(publisher.cancelled))
	}

	// Second cancel is a no-op.
	if err := svc.Cancel(context.Background(), booking.ID); err != nil {
		t.Fatalf("unexpected error on repeat cancel: %v", err)
	}
	if statusUpdates != 1 {
		t.Errorf("expected a single status write, got %d", statusUpdates)
	}
}
