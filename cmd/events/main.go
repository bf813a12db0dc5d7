package main

import (
	"slotly/internal/events/handler"
	"slotly/internal/events/repository"
	"slotly/internal/events/service"
	"slotly/internal/events/validator"
	"slotly/pkg/app"
	"slotly/pkg/config"
)

const ServiceName = "events"

// @title Slotly Events API
// @version 1.0
// @description API documentation for the Events microservice.
// @BasePath /
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Events service")
	eventService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewEventHandler(eventService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.EventService {
	eventValidator := validator.NewEventValidator(cfg.Log)
	eventRepo := repository.NewMongoEventRepository(cfg)
	eventService := service.NewEventService(
		eventRepo,
		eventValidator,
		cfg,
	)

	cfg.Log.Info("Events service initialized", "database", cfg.MongoDatabaseName)
	return eventService
}
