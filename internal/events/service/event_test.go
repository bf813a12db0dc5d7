package service

import (
	"context"
	"testing"

	eventserrors "slotly/internal/events/errors"
	"slotly/internal/events/validator"
	"slotly/pkg/config"
	apperrors "slotly/pkg/errors"
	"slotly/pkg/logger"
	"slotly/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockEventRepository struct {
	createFunc      func(ctx context.Context, event *model.EventType) error
	findByIDFunc    func(ctx context.Context, id string) (*model.EventType, error)
	findByHostFunc  func(ctx context.Context, hostID string, limit int, offset int64) ([]*model.EventType, error)
	countByHostFunc func(ctx context.Context, hostID string) (int64, error)
	updateFunc      func(ctx context.Context, id string, event *model.EventType) (*mongo.UpdateResult, error)
	deleteFunc      func(ctx context.Context, id string) error
}

func (m *mockEventRepository) Create(ctx context.Context, event *model.EventType) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, event)
	}
	return nil
}

func (m *mockEventRepository) FindByID(ctx context.Context, id string) (*model.EventType, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, eventserrors.ErrNotFound
}

func (m *mockEventRepository) FindByHost(ctx context.Context, hostID string, limit int, offset int64) ([]*model.EventType, error) {
	if m.findByHostFunc != nil {
		return m.findByHostFunc(ctx, hostID, limit, offset)
	}
	return nil, nil
}

func (m *mockEventRepository) CountByHost(ctx context.Context, hostID string) (int64, error) {
	if m.countByHostFunc != nil {
		return m.countByHostFunc(ctx, hostID)
	}
	return 0, nil
}

func (m *mockEventRepository) Update(ctx context.Context, id string, event *model.EventType) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, event)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newTestEventService(repo *mockEventRepository) EventService {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "events-test"})
	cfg := &config.Config{Log: log}
	return NewEventService(repo, validator.NewEventValidator(log), cfg)
}

func validEvent() *model.EventType {
	return &model.EventType{
		HostID:          "host-1",
		Title:           "Intro Call",
		Description:     "Thirty minute introduction",
		DurationMinutes: 30,
	}
}

func TestCreate_SanitizesAndStores(t *testing.T) {
	var stored *model.EventType
	repo := &mockEventRepository{
		createFunc: func(ctx context.Context, event *model.EventType) error {
			event.ID = "665d000000000000000000aa"
			stored = event
			return nil
		},
	}
	svc := newTestEventService(repo)

	event := validEvent()
	event.Title = "  Intro   Call  "
	if err := svc.Create(context.Background(), event); err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}

	if stored == nil {
		t.Fatal("expected event to reach the repository")
	}
	if stored.Title != "Intro Call" {
		t.Errorf("expected normalized title, got %q", stored.Title)
	}
	if event.ID == "" {
		t.Error("expected generated ID to be reflected on the input")
	}
}

func TestCreate_RejectsInvalidDuration(t *testing.T) {
	repo := &mockEventRepository{
		createFunc: func(ctx context.Context, event *model.EventType) error {
			t.Fatal("repository must not be reached for invalid input")
			return nil
		},
	}
	svc := newTestEventService(repo)

	event := validEvent()
	event.DurationMinutes = 3

	err := svc.Create(context.Background(), event)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestEventService(&mockEventRepository{})

	_, err := svc.GetByID(context.Background(), "665d000000000000000000aa")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestGetByHost_NormalizesPagination(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	repo := &mockEventRepository{
		findByHostFunc: func(ctx context.Context, hostID string, limit int, offset int64) ([]*model.EventType, error) {
			gotLimit, gotOffset = limit, offset
			return []*model.EventType{validEvent()}, nil
		},
		countByHostFunc: func(ctx context.Context, hostID string) (int64, error) {
			return 1, nil
		},
	}
	svc := newTestEventService(repo)

	events, count, err := svc.GetByHost(context.Background(), "host-1", -3, -10)
	if err != nil {
		t.Fatalf("expected list to succeed, got %v", err)
	}
	if count != 1 || len(events) != 1 {
		t.Errorf("expected one event with count 1, got %d events count %d", len(events), count)
	}
	if gotLimit <= 0 {
		t.Errorf("expected normalized positive limit, got %d", gotLimit)
	}
	if gotOffset != 0 {
		t.Errorf("expected normalized offset 0, got %d", gotOffset)
	}
}

func TestUpdate_NeverTouchesDuration(t *testing.T) {
	existing := validEvent()
	existing.ID = "665d000000000000000000aa"

	var updated *model.EventType
	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.EventType, error) {
			found := *existing
			return &found, nil
		},
		updateFunc: func(ctx context.Context, id string, event *model.EventType) (*mongo.UpdateResult, error) {
			updated = event
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTestEventService(repo)

	private := true
	err := svc.Update(context.Background(), existing.ID, &model.EventTypeUpdate{
		Title:     "Renamed Call",
		IsPrivate: &private,
	})
	if err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}

	if updated == nil {
		t.Fatal("expected merged event to reach the repository")
	}
	if updated.Title != "Renamed Call" {
		t.Errorf("expected renamed title, got %q", updated.Title)
	}
	if !updated.IsPrivate {
		t.Error("expected is_private flip to be applied")
	}
	if updated.DurationMinutes != existing.DurationMinutes {
		t.Errorf("duration must survive updates untouched, got %d", updated.DurationMinutes)
	}
}

func TestUpdate_UnknownEvent(t *testing.T) {
	svc := newTestEventService(&mockEventRepository{})

	err := svc.Update(context.Background(), "665d000000000000000000aa", &model.EventTypeUpdate{Title: "Renamed"})
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestDelete_InvalidID(t *testing.T) {
	repo := &mockEventRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return eventserrors.ErrInvalidID
		},
	}
	svc := newTestEventService(repo)

	err := svc.Delete(context.Background(), "not-an-object-id")
	if err == nil {
		t.Fatal("expected invalid-input error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}
