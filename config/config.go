package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Common is embedded by every service configuration.
type Common struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Console reports whether logs should be human readable.
func (c Common) Console() bool {
	return c.LogFormat == "console"
}

type GatewayConfig struct {
	Common

	// Service name -> upstream base URL, e.g. "user-service=http://user:8700,order-service=http://order:8300"
	Routes map[string]string `env:"GATEWAY_ROUTES,required,notEmpty" envSeparator:"," envKeyValSeparator:"="`

	UpstreamTimeout time.Duration `env:"GATEWAY_UPSTREAM_TIMEOUT" envDefault:"30s"`
}

type UserConfig struct {
	Common

	PgURL     string `env:"PG_URL,required"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`

	CriticalMaxConcurrent    int64         `env:"BULKHEAD_CRITICAL_MAX_CONCURRENT" envDefault:"10"`
	CriticalMaxWait          time.Duration `env:"BULKHEAD_CRITICAL_MAX_WAIT" envDefault:"100ms"`
	NonCriticalMaxConcurrent int64         `env:"BULKHEAD_NONCRITICAL_MAX_CONCURRENT" envDefault:"5"`
	NonCriticalMaxWait       time.Duration `env:"BULKHEAD_NONCRITICAL_MAX_WAIT" envDefault:"50ms"`
}

type OrderConfig struct {
	Common

	PgURL     string `env:"PG_URL,required"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`

	UserServiceURL     string        `env:"USER_SERVICE_URL,required"`
	UserClientTimeout  time.Duration `env:"USER_CLIENT_TIMEOUT" envDefault:"5s"`
	UserRetryAttempts  int           `env:"USER_RETRY_ATTEMPTS" envDefault:"3"`
	UserRetryBaseDelay time.Duration `env:"USER_RETRY_BASE_DELAY" envDefault:"100ms"`
	UserRetryMaxDelay  time.Duration `env:"USER_RETRY_MAX_DELAY" envDefault:"2s"`

	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaOrdersTopic string   `env:"KAFKA_ORDERS_TOPIC" envDefault:"orders.events"`
}

type ShippingConfig struct {
	Common

	KafkaBrokers       []string `env:"KAFKA_BROKERS,required" envSeparator:","`
	KafkaOrdersTopic   string   `env:"KAFKA_ORDERS_TOPIC" envDefault:"orders.events"`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"shipping-orders"`
	KafkaDLQTopic      string   `env:"KAFKA_DLQ_TOPIC" envDefault:"orders.events.dlq"`

	OpensearchUrls           []string `env:"OPENSEARCH_URLS,required" envSeparator:","`
	OpensearchIndexShipments string   `env:"OPENSEARCH_INDEX_SHIPMENTS" envDefault:"shipments"`

	// Shipment lookups are gated by TrackingFeature when FeaturesURL is set.
	FeaturesURL         string        `env:"FEATURES_URL"`
	FeaturesTimeout     time.Duration `env:"FEATURES_TIMEOUT" envDefault:"2s"`
	FeaturesEnvironment string        `env:"FEATURES_ENVIRONMENT" envDefault:"dev"`
	TrackingFeature     string        `env:"SHIPMENT_TRACKING_FEATURE" envDefault:"shipment-tracking"`
}

type FeaturesConfig struct {
	Common

	PgURL     string `env:"PG_URL,required,notEmpty"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`
}

func NewGateway() (GatewayConfig, error) {
	return env.ParseAs[GatewayConfig]()
}

func NewUser() (UserConfig, error) {
	return env.ParseAs[UserConfig]()
}

func NewOrder() (OrderConfig, error) {
	return env.ParseAs[OrderConfig]()
}

func NewShipping() (ShippingConfig, error) {
	return env.ParseAs[ShippingConfig]()
}

func NewFeatures() (FeaturesConfig, error) {
	return env.ParseAs[FeaturesConfig]()
}
