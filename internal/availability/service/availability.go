package service

import (
	"context"
	"errors"

	availabilityerrors "slotly/internal/availability/errors"
	"slotly/internal/availability/repository"
	"slotly/internal/availability/validator"
	"slotly/pkg/config"
	apperrors "slotly/pkg/errors"
	"slotly/pkg/model"
	"slotly/pkg/sanitizer"
)

type AvailabilityService interface {
	GetWeekly(ctx context.Context, hostID string) (*model.WeeklyAvailability, error)
	PutWeekly(ctx context.Context, avail *model.WeeklyAvailability) error
	GetGap(ctx context.Context, hostID string) (*model.TimeGap, error)
	PutGap(ctx context.Context, gap *model.TimeGap) error
}

type availabilityService struct {
	repo      repository.AvailabilityRepository
	validator *validator.AvailabilityValidator
	cfg       *config.Config
}

func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	validator *validator.AvailabilityValidator,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// GetWeekly returns the host's stored pattern, or the configured default
// pattern when the host has never saved one. A host with no document is a
// normal state, not an error.
func (s *availabilityService) GetWeekly(ctx context.Context, hostID string) (*model.WeeklyAvailability, error) {
	hostID = sanitizer.TrimAndNormalize(hostID)
	if hostID == "" {
		return nil, apperrors.InvalidInput("Host ID cannot be empty")
	}

	avail, err := s.repo.FindWeekly(ctx, hostID)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return s.defaultWeekly(hostID), nil
		}
		s.cfg.Log.Error("Failed to get availability", "host_id", hostID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability", err)
	}

	return avail, nil
}

func (s *availabilityService) PutWeekly(ctx context.Context, avail *model.WeeklyAvailability) error {
	avail.HostID = sanitizer.TrimAndNormalize(avail.HostID)

	if err := s.validator.Validate(avail); err != nil {
		s.cfg.Log.Warn("Availability validation failed",
			"host_id", avail.HostID,
			"error", err,
		)
		return apperrors.Configuration("Availability configuration is invalid", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.UpsertWeekly(ctx, avail); err != nil {
		s.cfg.Log.Error("Failed to save availability", "host_id", avail.HostID, "error", err)
		return apperrors.Internal("Failed to save availability", err)
	}

	s.cfg.Log.Info("Availability saved successfully", "host_id", avail.HostID)
	return nil
}

// GetGap returns the host's minimum-notice setting, defaulting to the
// configured gap when the host has never set one.
func (s *availabilityService) GetGap(ctx context.Context, hostID string) (*model.TimeGap, error) {
	hostID = sanitizer.TrimAndNormalize(hostID)
	if hostID == "" {
		return nil, apperrors.InvalidInput("Host ID cannot be empty")
	}

	gap, err := s.repo.FindGap(ctx, hostID)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrGapNotFound) {
			return &model.TimeGap{HostID: hostID, Minutes: s.cfg.DefaultTimeGapMin}, nil
		}
		s.cfg.Log.Error("Failed to get time gap", "host_id", hostID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve time gap", err)
	}

	return gap, nil
}

func (s *availabilityService) PutGap(ctx context.Context, gap *model.TimeGap) error {
	gap.HostID = sanitizer.TrimAndNormalize(gap.HostID)

	if err := s.validator.ValidateGap(gap); err != nil {
		s.cfg.Log.Warn("Time gap validation failed", "host_id", gap.HostID, "error", err)
		return apperrors.Configuration("Time gap configuration is invalid", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.UpsertGap(ctx, gap); err != nil {
		s.cfg.Log.Error("Failed to save time gap", "host_id", gap.HostID, "error", err)
		return apperrors.Internal("Failed to save time gap", err)
	}

	s.cfg.Log.Info("Time gap saved successfully", "host_id", gap.HostID, "minutes", gap.Minutes)
	return nil
}

// defaultWeekly builds the out-of-the-box pattern: weekdays open with the
// configured default window, weekend closed with the same times retained as
// dormant defaults.
func (s *availabilityService) defaultWeekly(hostID string) *model.WeeklyAvailability {
	days := make(map[model.Weekday]model.DayWindow, len(model.WeekOrder))
	for _, day := range model.WeekOrder {
		days[day] = model.DayWindow{
			IsAvailable: day != model.Saturday && day != model.Sunday,
			StartTime:   s.cfg.DefaultDayStart,
			EndTime:     s.cfg.DefaultDayEnd,
		}
	}
	return &model.WeeklyAvailability{
		HostID: hostID,
		Days:   days,
	}
}
