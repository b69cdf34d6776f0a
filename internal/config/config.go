// Package config provides configuration management for decoderd using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultServerPort      = 8080
	defaultServerTimeout   = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 10
	defaultConnMaxIdleTime = 30 * time.Minute
	defaultProbeTimeout    = 10 * time.Second
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Selector SelectorConfig `mapstructure:"selector"`
	Registry RegistryConfig `mapstructure:"registry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres, mysql
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	AddSource  bool   `mapstructure:"add_source"`
	TimeFormat string `mapstructure:"time_format"`
}

// SelectorConfig holds decoder selection policy configuration.
type SelectorConfig struct {
	// PreferBaseline flips the H.264 Baseline/High preference pair.
	// The default prefers High.
	PreferBaseline bool `mapstructure:"prefer_baseline"`
	// ConstrainedProfiles enables ranking of the constrained AVC variants.
	ConstrainedProfiles bool `mapstructure:"constrained_profiles"`
	// AV1Profiles enables the AV1 profile preference table.
	AV1Profiles bool `mapstructure:"av1_profiles"`
}

// RegistryConfig holds decoder registry configuration.
type RegistryConfig struct {
	// Kind selects the registry backend: "snapshot" or "ffmpeg".
	Kind string `mapstructure:"kind"`
	// SnapshotPath is the decoder inventory file for the snapshot backend.
	SnapshotPath string `mapstructure:"snapshot_path"`
	// FFmpegPath is the ffmpeg binary for the ffmpeg backend
	// (empty = resolve from PATH).
	FFmpegPath string `mapstructure:"ffmpeg_path"`
	// ProbeTimeout bounds a single ffmpeg invocation.
	ProbeTimeout Duration `mapstructure:"probe_timeout"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with DECODERD_ and use underscores for
// nesting. Example: DECODERD_SERVER_PORT=8080.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	SetDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/decoderd")
		v.AddConfigPath("$HOME/.decoderd")
	}

	// Environment variable settings
	v.SetEnvPrefix("DECODERD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
// This should be called before reading the config file to ensure defaults
// are in place.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	v.SetDefault("server.write_timeout", defaultServerTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.cors_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "decoderd.db")
	v.SetDefault("database.max_open_conns", defaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", defaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", defaultConnMaxIdleTime)
	v.SetDefault("database.log_level", "warn")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Selector defaults
	v.SetDefault("selector.prefer_baseline", false)
	v.SetDefault("selector.constrained_profiles", true)
	v.SetDefault("selector.av1_profiles", true)

	// Registry defaults
	v.SetDefault("registry.kind", "ffmpeg")
	v.SetDefault("registry.snapshot_path", "")
	v.SetDefault("registry.ffmpeg_path", "")
	v.SetDefault("registry.probe_timeout", Duration(defaultProbeTimeout))
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	const maxPort = 65535
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return fmt.Errorf("server.port must be between 1 and %d", maxPort)
	}

	// Database validation
	validDrivers := map[string]bool{"sqlite": true, "postgres": true, "mysql": true}
	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("database.driver must be one of: sqlite, postgres, mysql")
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	// Registry validation
	switch c.Registry.Kind {
	case "ffmpeg":
	case "snapshot":
		if c.Registry.SnapshotPath == "" {
			return fmt.Errorf("registry.snapshot_path is required for the snapshot registry")
		}
	default:
		return fmt.Errorf("registry.kind must be one of: snapshot, ffmpeg")
	}
	if c.Registry.ProbeTimeout < 0 {
		return fmt.Errorf("registry.probe_timeout must not be negative")
	}

	return nil
}
