package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "stayhost"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultAssistantBaseURL       = "https://api.groq.com/openai/v1"
	DefaultAssistantModel         = "llama-3.3-70b-versatile"
	DefaultAssistantModelName     = "Llama 3.3 70B"
	DefaultAssistantTemperature   = 0.7
	DefaultAssistantMaxTokens     = 500
	DefaultAssistantTimeout       = 15 * time.Second
	DefaultAssistantCallerLimit   = 10
	DefaultAssistantCallerWindow  = 10 * time.Minute
	DefaultAssistantDailyLimit    = 200
	DefaultAssistantSweepInterval = 5 * time.Minute
	DefaultAssistantEvictAfter    = 10 * time.Minute
	DefaultAssistantTimezone      = "Local"
	DefaultAssistantName          = "Sofia"
	DefaultAssistantOwnerName     = "Marco"

	DefaultCatalogTimeout = 5 * time.Second
)
