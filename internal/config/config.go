package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/okarpov/storecore/pkg/database"
	"github.com/okarpov/storecore/pkg/kafka"
	"github.com/okarpov/storecore/pkg/tracing"
)

// Storage backend selectors.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds all runtime settings, loaded from the environment.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"storecore"`
	Version     string `env:"SERVICE_VERSION" envDefault:"dev"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// StorageBackend selects where entities live: "memory" or "postgres".
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`

	// RedisEnabled turns on the analytics cache.
	RedisEnabled bool          `env:"REDIS_ENABLED" envDefault:"false"`
	CacheTTL     time.Duration `env:"ANALYTICS_CACHE_TTL" envDefault:"60s"`

	// KafkaEnabled turns on domain event publishing.
	KafkaEnabled bool `env:"KAFKA_ENABLED" envDefault:"false"`

	// RatingRebuildInterval controls the periodic summary repair job.
	// Zero disables it.
	RatingRebuildInterval time.Duration `env:"RATING_REBUILD_INTERVAL" envDefault:"10m"`

	Postgres database.PostgresConfig
	Redis    database.RedisConfig
	Kafka    kafka.ProducerConfig
	Tracing  tracing.Config
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q: must be %q or %q",
			c.StorageBackend, BackendMemory, BackendPostgres)
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("ANALYTICS_CACHE_TTL must be positive")
	}
	return nil
}
