package kafka_config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaEnabled, "")
	t.Setenv(EnvKafkaBrokers, "")

	cfg := Load()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultAssistantTopic, cfg.AssistantTopic)
	assert.Empty(t, cfg.Problems(), "disabled config is always valid")
}

func TestLoad_BrokerList(t *testing.T) {
	t.Setenv(EnvKafkaEnabled, "true")
	t.Setenv(EnvKafkaBrokers, " kafka-1:9092 , ,kafka-2:9092")

	cfg := Load()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Enabled:              true,
			Brokers:              []string{"localhost:9092"},
			AssistantTopic:       "a",
			CatalogTopic:         "c",
			ProducerMaxAttempts:  3,
			ProducerBatchTimeout: DefaultProducerBatchTimeout,
			ProducerWriteTimeout: DefaultProducerWriteTimeout,
			ProducerRequireAcks:  1,
			ProducerCompression:  "snappy",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no brokers", func(c *Config) { c.Brokers = nil }, "At least one Kafka broker"},
		{"bad compression", func(c *Config) { c.ProducerCompression = "brotli" }, "ProducerCompression"},
		{"bad acks", func(c *Config) { c.ProducerRequireAcks = 2 }, "ProducerRequireAcks"},
		{"empty topic", func(c *Config) { c.AssistantTopic = "" }, "assistant events topic"},
		{"zero attempts", func(c *Config) { c.ProducerMaxAttempts = 0 }, "ProducerMaxAttempts"},
	}

	require.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
