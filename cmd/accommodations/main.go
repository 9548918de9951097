package main

import (
	"stayhost/internal/accommodations/handler"
	"stayhost/internal/accommodations/repository"
	"stayhost/internal/accommodations/service"
	"stayhost/internal/accommodations/validator"
	"stayhost/internal/health"
	"stayhost/pkg/app"
	"stayhost/pkg/config"
	"stayhost/pkg/contracts"
	"stayhost/pkg/events"
)

const ServiceName = "accommodations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	publisher, err := events.NewPublisher(cfg.Kafka, cfg.Kafka.CatalogTopic, ServiceName, cfg.Log)
	if err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	accommodationValidator := validator.NewAccommodationValidator(cfg.Log)
	accommodationRepo := repository.NewMongoAccommodationRepository(cfg)
	accommodationService := service.NewAccommodationService(
		accommodationRepo,
		accommodationValidator,
		publisher,
		cfg,
	)
	accommodationHandler := handler.NewAccommodationHandler(accommodationService, cfg.Log)
	cfg.Log.Info("Accommodation service initialized")

	healthHandler := health.NewHealthHandler(cfg.Log).
		WithCheck("database", health.MongoCheck(cfg.Client.Mongo.Client))

	application := app.NewApplication()
	application.SetApp(cfg, accommodationHandler, healthHandler)
	application.OnShutdown(contracts.StopFunc(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}))
	application.Run()
}
