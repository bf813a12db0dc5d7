package main

import (
	"slotly/internal/availability/handler"
	"slotly/internal/availability/repository"
	"slotly/internal/availability/service"
	"slotly/internal/availability/validator"
	"slotly/pkg/app"
	"slotly/pkg/config"
)

const ServiceName = "availability"

// @title Slotly Availability API
// @version 1.0
// @description API documentation for the Availability microservice.
// @BasePath /
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Availability service")
	availabilityService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AvailabilityService {
	availabilityValidator := validator.NewAvailabilityValidator(cfg.Log, cfg.SlotGranularityMin)
	availabilityRepo := repository.NewMongoAvailabilityRepository(cfg)
	availabilityService := service.NewAvailabilityService(
		availabilityRepo,
		availabilityValidator,
		cfg,
	)

	cfg.Log.Info("Availability service initialized", "database", cfg.MongoDatabaseName)
	return availabilityService
}
