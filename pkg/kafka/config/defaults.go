package kafka_config

import "time"

const (
	DefaultKafkaEnabled = false
	DefaultKafkaBrokers = "localhost:9092"

	DefaultAssistantTopic = "stayhost.assistant.events"
	DefaultCatalogTopic   = "stayhost.catalog.events"
	DefaultDLQTopic       = ""

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerWriteTimeout = 5 * time.Second
	DefaultProducerRequireAcks  = 1 // leader only; usage events tolerate loss
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = true

	DefaultEnableMiddleware = true
)
