// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from
// environment variables and an optional YAML file. It provides a
// centralized Config struct used across the application.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"

	"biolink/internal/analytics"
	"biolink/internal/database"
	"biolink/internal/visit"
)

// defaultDBPassword is refused in production.
const defaultDBPassword = "changeme"

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string `mapstructure:"host" validate:"required"`
	Port string `mapstructure:"port" validate:"required|isNumber"`
	Env  string `mapstructure:"env" validate:"required|in:development,production,testing"`

	// Database: "postgres" or "sqlite"
	DBDriver   string `mapstructure:"db_driver" validate:"required|in:postgres,sqlite"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	SQLitePath string `mapstructure:"sqlite_path"`

	// Valkey (Redis-compatible) for sessions and the profile cache. An
	// empty host keeps both in process.
	ValkeyHost     string `mapstructure:"valkey_host"`
	ValkeyPort     string `mapstructure:"valkey_port"`
	ValkeyPassword string `mapstructure:"valkey_password"`
	ValkeyDB       int    `mapstructure:"valkey_db" validate:"min:0|max:15"`

	// S3-compatible object storage for avatars; optional.
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3Region    string `mapstructure:"s3_region"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3PublicURL string `mapstructure:"s3_public_url"`

	// Public page
	PublicURL   string `mapstructure:"public_url"`
	ReportEmail string `mapstructure:"report_email" validate:"email"`

	// Analytics timing
	VisitCooldown time.Duration `mapstructure:"visit_cooldown"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`

	MetricsEnabled bool `mapstructure:"metrics_enabled"`
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"host":            "APP_HOST",
	"port":            "APP_PORT",
	"env":             "APP_ENV",
	"db_driver":       "DB_DRIVER",
	"db_host":         "POSTGRES_HOST",
	"db_port":         "POSTGRES_PORT",
	"db_user":         "POSTGRES_USER",
	"db_password":     "POSTGRES_PASSWORD",
	"db_name":         "POSTGRES_DB",
	"sqlite_path":     "SQLITE_PATH",
	"valkey_host":     "VALKEY_HOST",
	"valkey_port":     "VALKEY_PORT",
	"valkey_password": "VALKEY_PASSWORD",
	"valkey_db":       "VALKEY_DB",
	"s3_endpoint":     "S3_ENDPOINT",
	"s3_region":       "S3_REGION",
	"s3_access_key":   "S3_ACCESS_KEY",
	"s3_secret_key":   "S3_SECRET_KEY",
	"s3_bucket":       "S3_BUCKET",
	"s3_public_url":   "S3_PUBLIC_URL",
	"public_url":      "PUBLIC_URL",
	"report_email":    "REPORT_EMAIL",
	"visit_cooldown":  "VISIT_COOLDOWN",
	"poll_interval":   "POLL_INTERVAL",
	"metrics_enabled": "METRICS_ENABLED",
}

// Load reads configuration from defaults, the optional YAML file at path
// and environment variables, in increasing precedence. Returns an error if
// a value is invalid or a production-critical value is left at its default.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("db_driver", database.DriverSQLite)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "biolink")
	v.SetDefault("db_password", defaultDBPassword)
	v.SetDefault("db_name", "biolink")
	v.SetDefault("sqlite_path", "biolink.db")
	v.SetDefault("valkey_host", "")
	v.SetDefault("valkey_port", "6379")
	v.SetDefault("valkey_password", "")
	v.SetDefault("valkey_db", 0)
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_access_key", "")
	v.SetDefault("s3_secret_key", "")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_public_url", "")
	v.SetDefault("public_url", "")
	v.SetDefault("report_email", "")
	v.SetDefault("visit_cooldown", visit.DefaultCooldown)
	v.SetDefault("poll_interval", analytics.DefaultPollInterval)
	v.SetDefault("metrics_enabled", true)
}

func (c *Config) validate() error {
	if v := validate.Struct(c); !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	if c.VisitCooldown <= 0 {
		return fmt.Errorf("invalid config: VISIT_COOLDOWN must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid config: POLL_INTERVAL must be positive")
	}
	if c.PublicURL != "" {
		if u, err := url.Parse(c.PublicURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid config: PUBLIC_URL must be an absolute URL")
		}
	}
	if c.IsProduction() && c.DBDriver == database.DriverPostgres && c.DBPassword == defaultDBPassword {
		return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == database.DriverSQLite {
		return "file:" + c.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword), c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true in production, where cookies are HTTPS-only.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ValkeyEnabled reports whether a Valkey host is configured.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}
