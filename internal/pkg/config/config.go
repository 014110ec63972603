package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Waypoints WaypointsConfig `mapstructure:"waypoints"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	BodyLimit    int `mapstructure:"body_limit"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int    `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	// TokenTTL is in minutes.
	TokenTTL int `mapstructure:"token_ttl"`
}

func (a AuthConfig) TTL() time.Duration {
	return time.Duration(a.TokenTTL) * time.Minute
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// WaypointsConfig bounds optimization requests.
type WaypointsConfig struct {
	MaxGroups int `mapstructure:"max_groups"`
	MaxPoints int `mapstructure:"max_points"`
	// CacheTTL is in seconds; 0 disables path memoization.
	CacheTTL int `mapstructure:"cache_ttl"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.body_limit", 1024*1024)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "routekit")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "routekit")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 50)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", true)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 60*24)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "usage-ledger-queue")
	v.SetDefault("waypoints.max_groups", 25)
	v.SetDefault("waypoints.max_points", 500)
	v.SetDefault("waypoints.cache_ttl", 600)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: ROUTEKIT_DATABASE_HOST → database.host
	v.SetEnvPrefix("ROUTEKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.Database.MaxConns < 0 {
		errs = append(errs, "database.max_conns must not be negative")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	if c.Server.BodyLimit <= 0 {
		errs = append(errs, "server.body_limit must be positive")
	}
	if len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, "auth.jwt_secret must be at least 32 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, "auth.token_ttl must be positive")
	}
	if c.Temporal.HostPort == "" {
		errs = append(errs, "temporal.host_port is required")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}
	if c.Waypoints.MaxGroups <= 0 {
		errs = append(errs, "waypoints.max_groups must be positive")
	}
	if c.Waypoints.MaxPoints <= 0 {
		errs = append(errs, "waypoints.max_points must be positive")
	}
	if c.Waypoints.CacheTTL < 0 {
		errs = append(errs, "waypoints.cache_ttl must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
