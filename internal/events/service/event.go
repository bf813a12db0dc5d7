package service

import (
	"context"
	"errors"
	"sync"

	eventserrors "slotly/internal/events/errors"
	"slotly/internal/events/repository"
	"slotly/internal/events/validator"
	"slotly/pkg/config"
	apperrors "slotly/pkg/errors"
	"slotly/pkg/model"
	"slotly/pkg/sanitizer"
)

type EventService interface {
	Create(ctx context.Context, event *model.EventType) error
	GetByID(ctx context.Context, id string) (*model.EventType, error)
	GetByHost(ctx context.Context, hostID string, limit int, offset int64) ([]*model.EventType, int64, error)
	Update(ctx context.Context, id string, updates *model.EventTypeUpdate) error
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	repo      repository.EventRepository
	validator *validator.EventValidator
	cfg       *config.Config
}

func NewEventService(
	repo repository.EventRepository,
	validator *validator.EventValidator,
	cfg *config.Config,
) EventService {
	return &eventService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *eventService) Create(ctx context.Context, event *model.EventType) error {
	s.sanitize(event)

	if err := s.validator.Validate(event); err != nil {
		s.cfg.Log.Warn("Event type validation failed",
			"title", event.Title,
			"host_id", event.HostID,
			"error", err,
		)
		return apperrors.Validation("Event type validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to create event type",
			"title", event.Title,
			"host_id", event.HostID,
			"error", err,
		)
		return apperrors.Internal("Failed to create event type", err)
	}

	s.cfg.Log.Info("Event type created successfully",
		"id", event.ID,
		"title", event.Title,
		"host_id", event.HostID,
		"duration_minutes", event.DurationMinutes,
	)
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*model.EventType, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event type ID cannot be empty")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event type", id)
		}
		if errors.Is(err, eventserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid event type ID format")
		}
		s.cfg.Log.Error("Failed to get event type by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve event type", err)
	}

	return event, nil
}

func (s *eventService) GetByHost(ctx context.Context, hostID string, limit int, offset int64) ([]*model.EventType, int64, error) {
	hostID = sanitizer.TrimAndNormalize(hostID)
	if hostID == "" {
		return nil, 0, apperrors.InvalidInput("Host ID cannot be empty")
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var events []*model.EventType
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByHost(ctx, hostID)
		if err != nil {
			s.cfg.Log.Error("Failed to count event types", "host_id", hostID, "error", err)
			errCount = apperrors.Internal("Failed to count event types", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		events, err = s.repo.FindByHost(ctx, hostID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list event types",
				"host_id", hostID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve event types", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return events, count, nil
}

// Update applies metadata-only changes. Duration is not part of the update
// payload at all, so an event's length can never drift under its existing
// bookings.
func (s *eventService) Update(ctx context.Context, id string, updates *model.EventTypeUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Event type ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Event type", id)
		}
		if errors.Is(err, eventserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid event type ID format")
		}
		return apperrors.Internal("Failed to check event type existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Event type update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeEventUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Event type validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update event type", "id", id, "error", err)
		return apperrors.Internal("Failed to update event type", err)
	}

	s.cfg.Log.Info("Event type updated successfully", "id", id, "title", merged.Title)
	return nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Event type ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Event type", id)
		}
		if errors.Is(err, eventserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid event type ID format")
		}
		s.cfg.Log.Error("Failed to delete event type", "id", id, "error", err)
		return apperrors.Internal("Failed to delete event type", err)
	}

	s.cfg.Log.Info("Event type deleted successfully", "id", id)
	return nil
}

func (s *eventService) sanitize(event *model.EventType) {
	event.HostID = sanitizer.TrimAndNormalize(event.HostID)
	event.Title = sanitizer.NormalizeTitle(event.Title)
	event.Description = sanitizer.NormalizeFreeText(event.Description)
}

func (s *eventService) mergeEventUpdates(existing *model.EventType, updates *model.EventTypeUpdate) *model.EventType {
	merged := *existing

	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.IsPrivate != nil {
		merged.IsPrivate = *updates.IsPrivate
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}
