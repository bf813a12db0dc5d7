package validator

import (
	"errors"
	"fmt"
	"strings"

	"slotly/pkg/logger"
	"slotly/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type AvailabilityValidator struct {
	validate    *validator.Validate
	logger      *logger.Logger
	granularity int
}

func NewAvailabilityValidator(log *logger.Logger, granularityMin int) *AvailabilityValidator {
	v := validator.New()

	if err := v.RegisterValidation("day_time", validateDayTime); err != nil {
		log.Fatal("Failed to register 'day_time' validator", "error", err)
	}

	log.Info("Availability validator initialized successfully")

	return &AvailabilityValidator{
		validate:    v,
		logger:      log,
		granularity: granularityMin,
	}
}

func validateDayTime(fl validator.FieldLevel) bool {
	_, err := model.ParseDayTime(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

// Validate checks structural constraints plus the per-day window semantics:
// an available day must have start strictly before end, and both edges must
// fall on the configured slot granularity. Unavailable days keep their times
// as dormant defaults and are not checked beyond parseability.
func (v *AvailabilityValidator) Validate(avail *model.WeeklyAvailability) error {
	if err := v.validate.Struct(avail); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	var windowErrs ValidationErrors
	for _, day := range model.WeekOrder {
		window, ok := avail.Days[day]
		if !ok {
			windowErrs = append(windowErrs, ValidationError{
				Field:   string(day),
				Message: "all seven weekdays must be present",
			})
			continue
		}
		if err := v.checkWindow(day, window); err != nil {
			windowErrs = append(windowErrs, *err)
		}
	}
	if len(windowErrs) > 0 {
		return windowErrs
	}
	return nil
}

func (v *AvailabilityValidator) checkWindow(day model.Weekday, window model.DayWindow) *ValidationError {
	start, err := model.ParseDayTime(window.StartTime)
	if err != nil {
		return &ValidationError{Field: string(day), Message: "start_time must be in HH:MM 24-hour format"}
	}
	end, err := model.ParseDayTime(window.EndTime)
	if err != nil {
		return &ValidationError{Field: string(day), Message: "end_time must be in HH:MM 24-hour format"}
	}

	if !window.IsAvailable {
		return nil
	}

	if start >= end {
		return &ValidationError{Field: string(day), Message: "start_time must be before end_time on an available day"}
	}
	if v.granularity > 0 && (start%v.granularity != 0 || end%v.granularity != 0) {
		return &ValidationError{
			Field:   string(day),
			Message: fmt.Sprintf("window edges must align to %d-minute granularity", v.granularity),
		}
	}
	return nil
}

func (v *AvailabilityValidator) ValidateGap(gap *model.TimeGap) error {
	if err := v.validate.Struct(gap); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *AvailabilityValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "day_time":
			message = fmt.Sprintf("%s must be in HH:MM 24-hour format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
