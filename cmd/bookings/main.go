package main

import (
	"slotly/internal/bookings/handler"
	"slotly/internal/bookings/repository"
	"slotly/internal/bookings/service"
	"slotly/internal/bookings/validator"
	"slotly/pkg/app"
	"slotly/pkg/client"
	"slotly/pkg/config"
	"slotly/pkg/kafka"
	kafka_config "slotly/pkg/kafka/config"
)

const ServiceName = "bookings"

// @title Slotly Bookings API
// @version 1.0
// @description API documentation for the Bookings microservice.
// @BasePath /
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	bookingService, producer := initServices(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.BookingService, *kafka.Producer) {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(func(msg string, args ...any) {
		cfg.Log.Info(msg, args...)
	})

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingTopic, kafkaCfg.BookingDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	eventClient := client.NewEventClient(cfg.EventsServiceURL)
	availabilityClient := client.NewAvailabilityClient(cfg.AvailabilityServiceURL)

	// The meeting provider is optional infrastructure; without it bookings
	// confirm with no meeting link.
	var meetings service.MeetingProvisioner
	if cfg.MeetingProviderURL != "" {
		meetings = client.NewMeetingClient(cfg.MeetingProviderURL)
	}

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		bookingValidator,
		eventClient,
		availabilityClient,
		meetings,
		service.NewKafkaBookingPublisher(producer, ServiceName),
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, producer
}
