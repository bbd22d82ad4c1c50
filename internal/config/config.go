// Package config defines handler configuration and its layered loader.
package config

import (
	"github.com/okian/sitefn/internal/domain/model"
)

// Backend names accepted by MailBackend and CounterBackend.
const (
	MailSES = "ses"
	MailLog = "log"

	CounterDynamoDB  = "dynamodb"
	CounterRedis     = "redis"
	CounterMongo     = "mongo"
	CounterDatastore = "datastore"
	CounterMemory    = "memory"
)

// Config contains process configuration shared by every binary.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr is the dev server listen address.
	Addr string `koanf:"addr"`

	// AWSRegion is used for SES and DynamoDB clients.
	AWSRegion string `koanf:"aws_region"`

	// MailBackend selects the Sender: ses or log.
	MailBackend string `koanf:"mail_backend"`
	FromEmail   string `koanf:"from_email"`
	ToEmail     string `koanf:"to_email"`

	// AllowedOrigin is the single origin allowed to read the visitor count.
	AllowedOrigin string `koanf:"allowed_origin"`

	// CounterBackend selects the store: dynamodb, redis, mongo, datastore or memory.
	CounterBackend string `koanf:"counter_backend"`
	CounterTable   string `koanf:"counter_table"`
	CounterKey     string `koanf:"counter_key"`

	// DynamoDBEndpoint overrides the service endpoint, e.g. DynamoDB Local.
	DynamoDBEndpoint string `koanf:"dynamodb_endpoint"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`

	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`

	GCPProject string `koanf:"gcp_project"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsEnabled false turns recording off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsBuckets are latency histogram buckets in milliseconds, e.g.
	// SITEFN_METRICS_BUCKETS=1,10,100.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "json",
		Addr:           ":9080",
		AWSRegion:      "us-east-1",
		MailBackend:    MailSES,
		AllowedOrigin:  "http://localhost:9080",
		CounterBackend: CounterDynamoDB,
		CounterTable:   model.VisitorCountTable,
		CounterKey:     model.VisitorCountKey,
		RedisAddr:      "localhost:6379",
		MongoURI:       "mongodb://localhost:27017",
		MongoDatabase:  "sitefn",

		MetricsNamespace: "sitefn",
		MetricsSubsystem: "handlers",
		MetricsEnabled:   true,
	}
}
