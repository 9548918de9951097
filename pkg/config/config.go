package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"stayhost/pkg/client"
	kafka_config "stayhost/pkg/kafka/config"
	"stayhost/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Assistant AssistantConfig
	Kafka     *kafka_config.Config

	CatalogServiceURL string
	CatalogTimeout    time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// AssistantConfig carries everything the completion proxy needs. An empty
// APIKey is allowed at startup and reported per request.
type AssistantConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	ModelName   string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration

	CallerLimit   int
	CallerWindow  time.Duration
	DailyLimit    int
	SweepInterval time.Duration
	EvictAfter    time.Duration
	Timezone      string
	Location      *time.Location

	Name         string
	OwnerName    string
	PublicOrigin string
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Assistant: AssistantConfig{
			APIKey:      getEnvStr(EnvAssistantAPIKey, ""),
			BaseURL:     strings.TrimRight(getEnvStr(EnvAssistantBaseURL, DefaultAssistantBaseURL), "/"),
			Model:       getEnvStr(EnvAssistantModel, DefaultAssistantModel),
			ModelName:   getEnvStr(EnvAssistantModelName, DefaultAssistantModelName),
			Temperature: getEnvFloat(EnvAssistantTemperature, DefaultAssistantTemperature),
			MaxTokens:   getEnvNum(EnvAssistantMaxTokens, DefaultAssistantMaxTokens),
			Timeout:     getEnvDuration(EnvAssistantTimeout, DefaultAssistantTimeout),

			CallerLimit:   getEnvNum(EnvAssistantCallerLimit, DefaultAssistantCallerLimit),
			CallerWindow:  getEnvDuration(EnvAssistantCallerWindow, DefaultAssistantCallerWindow),
			DailyLimit:    getEnvNum(EnvAssistantDailyLimit, DefaultAssistantDailyLimit),
			SweepInterval: getEnvDuration(EnvAssistantSweepInterval, DefaultAssistantSweepInterval),
			EvictAfter:    getEnvDuration(EnvAssistantEvictAfter, DefaultAssistantEvictAfter),
			Timezone:      getEnvStr(EnvAssistantTimezone, DefaultAssistantTimezone),

			Name:         getEnvStr(EnvAssistantName, DefaultAssistantName),
			OwnerName:    getEnvStr(EnvAssistantOwnerName, DefaultAssistantOwnerName),
			PublicOrigin: strings.TrimRight(getEnvStr(EnvPublicOrigin, ""), "/"),
		},
		Kafka: kafka_config.Load(),

		CatalogServiceURL: strings.TrimRight(getEnvStr(EnvCatalogServiceURL, ""), "/"),
		CatalogTimeout:    getEnvDuration(EnvCatalogTimeout, DefaultCatalogTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    getEnvStr(EnvLogFormat, DefaultLogFormat),
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// Validate checks every setting and reports all problems at once. It also
// resolves the assistant time zone into Assistant.Location.
func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	errors = append(errors, cfg.Assistant.problems()...)
	// A request may wait on the catalog fetch and then on the completion call.
	if budget := cfg.AssistantBudget(); cfg.Assistant.Timeout > 0 {
		if cfg.WriteTimeout <= budget {
			errors = append(errors, fmt.Sprintf("WriteTimeout (%s) must exceed CatalogTimeout + AssistantTimeout (%s)", cfg.WriteTimeout, budget))
		}
		if cfg.RequestTimeout <= budget {
			errors = append(errors, fmt.Sprintf("RequestTimeout (%s) must exceed CatalogTimeout + AssistantTimeout (%s)", cfg.RequestTimeout, budget))
		}
	}

	if cfg.CatalogServiceURL != "" {
		if u, err := url.Parse(cfg.CatalogServiceURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("CatalogServiceURL must be an absolute URL, got: %s", cfg.CatalogServiceURL))
		}
	}
	if cfg.CatalogTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("CatalogTimeout must be positive, got: %s", cfg.CatalogTimeout))
	}

	if cfg.Kafka != nil {
		errors = append(errors, cfg.Kafka.Problems()...)
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

// AssistantBudget is the longest an answered request can spend waiting on its
// backends.
func (cfg *Config) AssistantBudget() time.Duration {
	return max(cfg.CatalogTimeout, 0) + cfg.Assistant.Timeout
}

func (a *AssistantConfig) problems() []string {
	var errors []string

	if u, err := url.Parse(a.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("AssistantBaseURL must be an absolute URL, got: %s", a.BaseURL))
	}
	if a.Model == "" {
		errors = append(errors, "AssistantModel cannot be empty")
	}
	if a.ModelName == "" {
		a.ModelName = a.Model
	}
	if a.Temperature < 0 || a.Temperature > 2 {
		errors = append(errors, fmt.Sprintf("AssistantTemperature must be between 0 and 2, got: %g", a.Temperature))
	}
	if a.MaxTokens <= 0 {
		errors = append(errors, fmt.Sprintf("AssistantMaxTokens must be positive, got: %d", a.MaxTokens))
	}
	if a.Timeout <= 0 {
		errors = append(errors, fmt.Sprintf("AssistantTimeout must be positive, got: %s", a.Timeout))
	}
	if a.CallerLimit <= 0 {
		errors = append(errors, fmt.Sprintf("AssistantCallerLimit must be positive, got: %d", a.CallerLimit))
	}
	if a.CallerWindow <= 0 {
		errors = append(errors, fmt.Sprintf("AssistantCallerWindow must be positive, got: %s", a.CallerWindow))
	}
	if a.DailyLimit <= 0 {
		errors = append(errors, fmt.Sprintf("AssistantDailyLimit must be positive, got: %d", a.DailyLimit))
	}
	if a.SweepInterval <= 0 {
		errors = append(errors, fmt.Sprintf("AssistantSweepInterval must be positive, got: %s", a.SweepInterval))
	}
	if a.EvictAfter < 0 {
		errors = append(errors, fmt.Sprintf("AssistantEvictAfter cannot be negative, got: %s", a.EvictAfter))
	}

	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		errors = append(errors, fmt.Sprintf("AssistantTimezone is not a known IANA zone: %s", a.Timezone))
	} else {
		a.Location = loc
	}

	if a.PublicOrigin != "" {
		if u, err := url.Parse(a.PublicOrigin); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("PublicOrigin must be an absolute URL, got: %s", a.PublicOrigin))
		}
	}

	return errors
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"assistant_api_key_set", cfg.Assistant.APIKey != "",
		"assistant_base_url", cfg.Assistant.BaseURL,
		"assistant_model", cfg.Assistant.Model,
		"assistant_timeout", cfg.Assistant.Timeout,
		"assistant_caller_limit", cfg.Assistant.CallerLimit,
		"assistant_caller_window", cfg.Assistant.CallerWindow,
		"assistant_daily_limit", cfg.Assistant.DailyLimit,
		"assistant_timezone", cfg.Assistant.Timezone,
		"catalog_service_url", cfg.CatalogServiceURL,
		"catalog_timeout", cfg.CatalogTimeout,
	)
	if cfg.Kafka != nil {
		cfg.Kafka.LogConfiguration(cfg.Log.Info)
	}
	if cfg.Assistant.APIKey == "" {
		cfg.Log.Warn("ASSISTANT_API_KEY is not set; assistant requests will fail until it is configured")
	}
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}
