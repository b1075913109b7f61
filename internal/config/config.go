// Package config loads the catalog service configuration from the environment.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/maisonarte/catalog-service/pkg/config"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CATALOG_HTTP_PORT" envDefault:"8007"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"maisonarte"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"maisonarte_secret"`
	PostgresDB   string `env:"CATALOG_DB_NAME" envDefault:"catalog_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis (catalog snapshot cache)
	RedisHost   string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort   int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass   string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB     int           `env:"REDIS_DB" envDefault:"0"`
	SnapshotTTL time.Duration `env:"CATALOG_SNAPSHOT_TTL" envDefault:"5m"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Uploads. MediaBaseURL is the public prefix stored in media URLs; when
	// empty the service serves uploads itself under /media.
	UploadDir    string `env:"CATALOG_UPLOAD_DIR" envDefault:"./uploads"`
	MediaBaseURL string `env:"CATALOG_MEDIA_BASE_URL" envDefault:""`

	// Admin API token for catalog writes.
	AdminToken string `env:"CATALOG_ADMIN_TOKEN"`

	// Tracing
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`

	// Pprof access, CIDR allowlist
	PprofCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.SnapshotTTL <= 0 {
		return fmt.Errorf("invalid snapshot TTL: %s", c.SnapshotTTL)
	}
	return nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
