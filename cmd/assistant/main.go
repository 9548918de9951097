package main

import (
	"context"

	accommodationsRepository "stayhost/internal/accommodations/repository"
	accommodationsService "stayhost/internal/accommodations/service"
	accommodationsValidator "stayhost/internal/accommodations/validator"
	"stayhost/internal/assistant/catalog"
	"stayhost/internal/assistant/completion"
	"stayhost/internal/assistant/handler"
	"stayhost/internal/assistant/service"
	"stayhost/internal/assistant/throttle"
	"stayhost/internal/health"
	"stayhost/pkg/app"
	"stayhost/pkg/client"
	"stayhost/pkg/config"
	"stayhost/pkg/contracts"
	"stayhost/pkg/events"
	"stayhost/pkg/middleware"
)

const ServiceName = "assistant"

func main() {
	cfg := config.Load(ServiceName)
	healthHandler := health.NewHealthHandler(cfg.Log)

	catalogProvider := initCatalog(cfg, healthHandler)

	publisher, err := events.NewPublisher(cfg.Kafka, cfg.Kafka.AssistantTopic, ServiceName, cfg.Log)
	if err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	requestThrottle := throttle.New(throttle.Config{
		CallerLimit:   cfg.Assistant.CallerLimit,
		CallerWindow:  cfg.Assistant.CallerWindow,
		DailyLimit:    cfg.Assistant.DailyLimit,
		Location:      cfg.Assistant.Location,
		SweepInterval: cfg.Assistant.SweepInterval,
		EvictAfter:    cfg.Assistant.EvictAfter,
	}, cfg.Log)

	completionClient := completion.NewClient(cfg.Assistant.BaseURL, cfg.Assistant.APIKey, cfg.Assistant.Timeout)

	assistantService := service.NewAssistantService(
		requestThrottle,
		catalogProvider,
		completionClient,
		publisher,
		cfg,
	)
	assistantHandler := handler.NewAssistantHandler(assistantService, cfg.Assistant.PublicOrigin, cfg.Log)
	cfg.Log.Info("Assistant service initialized",
		"model", cfg.Assistant.Model,
		"caller_limit", cfg.Assistant.CallerLimit,
		"daily_limit", cfg.Assistant.DailyLimit,
	)

	application := app.NewApplication()
	application.SetApp(cfg, assistantHandler, healthHandler, middleware.CallerIdentity())
	application.OnShutdown(
		requestThrottle,
		contracts.StopFunc(func() {
			if err := publisher.Close(); err != nil {
				cfg.Log.Error("Failed to close event publisher", "error", err)
			}
		}),
	)
	application.Run()
}

// initCatalog reads the catalog over HTTP when CATALOG_SERVICE_URL is set and
// straight from Mongo otherwise.
func initCatalog(cfg *config.Config, healthHandler *health.HealthHandler) catalog.Provider {
	if cfg.CatalogServiceURL != "" {
		catalogClient := client.NewHttpClient(cfg.CatalogServiceURL, cfg.CatalogTimeout)
		if err := catalogClient.WaitForHealthy(context.Background(), cfg.CatalogTimeout); err != nil {
			cfg.Log.Warn("Catalog service not healthy yet, answers will use an empty catalog until it is",
				"url", cfg.CatalogServiceURL,
				"error", err,
			)
		}
		healthHandler.WithCheck("catalog", health.ServiceCheck(catalogClient))
		cfg.Log.Info("Using remote catalog", "url", cfg.CatalogServiceURL)
		return catalog.NewHTTPProvider(catalogClient)
	}

	cfg.SetMongo()
	healthHandler.WithCheck("database", health.MongoCheck(cfg.Client.Mongo.Client))
	cfg.Log.Info("Using in-process catalog", "database", cfg.MongoDatabaseName)
	return accommodationsService.NewAccommodationService(
		accommodationsRepository.NewMongoAccommodationRepository(cfg),
		accommodationsValidator.NewAccommodationValidator(cfg.Log),
		nil,
		cfg,
	)
}
