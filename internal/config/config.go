package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DatabaseConfig holds PostgreSQL database connection settings (DB_* variables).
type DatabaseConfig struct {
	Host            string
	Port            string        `default:"5432"`
	User            string
	Password        string
	Name            string
	SSLMode         string        `default:"disable"`
	MaxOpenConns    int           `split_words:"true" default:"10"`
	MaxIdleConns    int           `split_words:"true" default:"5"`
	ConnMaxLifetime time.Duration `split_words:"true" default:"5m"`
	AutoMigrate     bool          `split_words:"true" default:"true"`
}

// MinIOConfig holds object storage settings for MinIO (MINIO_* variables).
// An empty Endpoint disables snapshot archiving and exports.
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string        `split_words:"true"`
	SecretKey     string        `split_words:"true"`
	Bucket        string
	UseSSL        bool          `split_words:"true"`
	PresignExpiry time.Duration `split_words:"true" default:"15m"`
}

// Enabled reports whether object storage is configured.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// RabbitConfig holds the lifecycle event broker settings (RABBIT_* variables).
// An empty URI disables event publishing.
type RabbitConfig struct {
	URI   string
	Queue string `default:"company_events"`
}

// Enabled reports whether event publishing is configured.
func (c RabbitConfig) Enabled() bool { return c.URI != "" }

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppName         string        `envconfig:"APP_NAME" default:"companyapi"`
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	Port            string        `envconfig:"PORT" default:"8080"`
	Timezone        string        `envconfig:"APP_TIMEZONE" default:"UTC"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	AuditPrincipal  string        `envconfig:"AUDIT_PRINCIPAL" default:"admin"`
	NotFoundStatus  int           `envconfig:"NOT_FOUND_STATUS" default:"400"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	Database DatabaseConfig `envconfig:"DB"`
	MinIO    MinIOConfig    `envconfig:"MINIO"`
	Rabbit   RabbitConfig   `envconfig:"RABBIT"`
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over .env values.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if c.NotFoundStatus < 400 || c.NotFoundStatus > 499 {
		return fmt.Errorf("invalid config: NOT_FOUND_STATUS must be a 4xx status, got %d", c.NotFoundStatus)
	}
	if c.AuditPrincipal == "" {
		return fmt.Errorf("invalid config: AUDIT_PRINCIPAL must not be empty")
	}
	if c.MinIO.Enabled() && c.MinIO.Bucket == "" {
		return fmt.Errorf("invalid config: MINIO_BUCKET is required when MINIO_ENDPOINT is set")
	}
	return nil
}
