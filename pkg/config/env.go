package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvAssistantAPIKey        = "ASSISTANT_API_KEY"
	EnvAssistantBaseURL       = "ASSISTANT_BASE_URL"
	EnvAssistantModel         = "ASSISTANT_MODEL"
	EnvAssistantModelName     = "ASSISTANT_MODEL_NAME"
	EnvAssistantTemperature   = "ASSISTANT_TEMPERATURE"
	EnvAssistantMaxTokens     = "ASSISTANT_MAX_TOKENS"
	EnvAssistantTimeout       = "ASSISTANT_TIMEOUT"
	EnvAssistantCallerLimit   = "ASSISTANT_CALLER_LIMIT"
	EnvAssistantCallerWindow  = "ASSISTANT_CALLER_WINDOW"
	EnvAssistantDailyLimit    = "ASSISTANT_DAILY_LIMIT"
	EnvAssistantSweepInterval = "ASSISTANT_SWEEP_INTERVAL"
	EnvAssistantEvictAfter    = "ASSISTANT_EVICT_AFTER"
	EnvAssistantTimezone      = "ASSISTANT_TIMEZONE"
	EnvAssistantName          = "ASSISTANT_NAME"
	EnvAssistantOwnerName     = "ASSISTANT_OWNER_NAME"
	EnvPublicOrigin           = "PUBLIC_ORIGIN"

	EnvCatalogServiceURL = "CATALOG_SERVICE_URL"
	EnvCatalogTimeout    = "CATALOG_TIMEOUT"
)
