package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for zenossctl.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Zenoss   ZenossConfig   `yaml:"zenoss"`
	Logging  LoggingConfig  `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Relay    RelayConfig    `yaml:"relay"`
}

// ZenossConfig contains the Zenoss server endpoint and credentials.
type ZenossConfig struct {
	URL       string `yaml:"url"`
	MountPath string `yaml:"mount_path"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`

	// Auth is "cookie" (login form, default) or "basic".
	Auth string `yaml:"auth"`

	// Timeout bounds each HTTP exchange in seconds. 0 leaves the transport default.
	Timeout int `yaml:"timeout"`

	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains TLS material for HTTPS Zenoss endpoints.
type TLSConfig struct {
	CertFile           string `yaml:"cert_file"`
	KeyFile            string `yaml:"key_file"`
	CAFile             string `yaml:"ca_file"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string            `yaml:"level"`
	Format string            `yaml:"format"`
	Output string            `yaml:"output"`
	File   FileLoggingConfig `yaml:"file"`
}

// FileLoggingConfig contains file-based logging settings.
// Used when Output is "file".
type FileLoggingConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// DatabaseConfig contains SQLite settings for the audit trail.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker settings for the event relay.
type MQTTConfig struct {
	Enabled     bool             `yaml:"enabled"`
	Broker      MQTTBrokerConfig `yaml:"broker"`
	Auth        MQTTAuthConfig   `yaml:"auth"`
	QoS         int              `yaml:"qos"`
	TopicPrefix string           `yaml:"topic_prefix"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// RelayConfig contains event relay settings.
type RelayConfig struct {
	// Interval between event polls in seconds.
	Interval int `yaml:"interval"`

	// Limit is the page size of each events query.
	Limit int `yaml:"limit"`

	// MetricsAddr serves Prometheus metrics when set, e.g. ":9105".
	MetricsAddr string `yaml:"metrics_addr"`

	API       RelayAPIConfig  `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// RelayAPIConfig controls access to the relay's /api/v1 endpoints.
type RelayAPIConfig struct {
	// JWTSecret enables bearer token auth on /api/v1 when set.
	// Tokens are minted with "zenossctl token".
	JWTSecret string `yaml:"jwt_secret"`

	// TokenTTL is the lifetime of minted tokens in minutes.
	TokenTTL int `yaml:"token_ttl"`
}

// WebSocketConfig contains settings for the live event stream.
type WebSocketConfig struct {
	MaxMessageSize int `yaml:"max_message_size"`
	PingInterval   int `yaml:"ping_interval"`
	PongTimeout    int `yaml:"pong_timeout"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: ZENOSS_SECTION_KEY, except for
// the server settings which use ZENOSS_URL, ZENOSS_USERNAME and so on.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// FromEnv builds a configuration from defaults and environment variables only.
// Used when no configuration file exists.
func FromEnv() (*Config, error) {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Zenoss: ZenossConfig{
			MountPath: "zport",
			Auth:      "cookie",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
			File: FileLoggingConfig{
				MaxSize:    50,
				MaxBackups: 3,
				MaxAge:     28,
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/zenossctl.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "zenossctl",
			},
			QoS:         1,
			TopicPrefix: "zenoss",
		},
		InfluxDB: InfluxDBConfig{
			URL:           "http://localhost:8086",
			Bucket:        "zenoss",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Relay: RelayConfig{
			Interval: 30,
			Limit:    100,
			API: RelayAPIConfig{
				TokenTTL: 60,
			},
			WebSocket: WebSocketConfig{
				MaxMessageSize: 8192,
				PingInterval:   30,
				PongTimeout:    10,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Zenoss server
	if v := os.Getenv("ZENOSS_URL"); v != "" {
		cfg.Zenoss.URL = v
	}
	if v := os.Getenv("ZENOSS_USERNAME"); v != "" {
		cfg.Zenoss.Username = v
	}
	if v := os.Getenv("ZENOSS_PASSWORD"); v != "" {
		cfg.Zenoss.Password = v
	}
	if v := os.Getenv("ZENOSS_AUTH"); v != "" {
		cfg.Zenoss.Auth = v
	}

	// Database
	if v := os.Getenv("ZENOSS_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("ZENOSS_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("ZENOSS_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("ZENOSS_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("ZENOSS_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Relay
	if v := os.Getenv("ZENOSS_RELAY_JWT_SECRET"); v != "" {
		cfg.Relay.API.JWTSecret = v
	}
}

// Validate checks the configuration for errors.
//
// All problems are collected so a bad file can be fixed in one pass.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Zenoss validation
	if c.Zenoss.URL == "" {
		errs = append(errs, "zenoss.url is required (set ZENOSS_URL environment variable)")
	} else if u, err := url.Parse(c.Zenoss.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, "zenoss.url must be an http or https URL")
	}
	if c.Zenoss.Auth != "cookie" && c.Zenoss.Auth != "basic" {
		errs = append(errs, "zenoss.auth must be cookie or basic")
	}
	if c.Zenoss.Timeout < 0 {
		errs = append(errs, "zenoss.timeout must not be negative")
	}
	if (c.Zenoss.TLS.CertFile == "") != (c.Zenoss.TLS.KeyFile == "") {
		errs = append(errs, "zenoss.tls.cert_file and zenoss.tls.key_file must be set together")
	}

	// Logging validation
	if strings.EqualFold(c.Logging.Output, "file") && c.Logging.File.Path == "" {
		errs = append(errs, "logging.file.path is required when logging.output is file")
	}

	// Database validation
	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.TopicPrefix == "" {
		errs = append(errs, "mqtt.topic_prefix is required")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled && (c.InfluxDB.URL == "" || c.InfluxDB.Bucket == "") {
		errs = append(errs, "influxdb.url and influxdb.bucket are required")
	}

	// Relay validation
	if c.Relay.Interval <= 0 {
		errs = append(errs, "relay.interval must be positive")
	}
	if c.Relay.Limit <= 0 {
		errs = append(errs, "relay.limit must be positive")
	}
	if c.Relay.API.JWTSecret != "" && len(c.Relay.API.JWTSecret) < 32 {
		errs = append(errs, "relay.api.jwt_secret must be at least 32 characters")
	}
	if c.Relay.API.TokenTTL <= 0 {
		errs = append(errs, "relay.api.token_ttl must be positive")
	}
	if c.Relay.WebSocket.PingInterval <= 0 || c.Relay.WebSocket.PongTimeout <= 0 {
		errs = append(errs, "relay.websocket.ping_interval and pong_timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetTimeout returns the Zenoss request timeout as a Duration.
func (c *Config) GetTimeout() time.Duration {
	return time.Duration(c.Zenoss.Timeout) * time.Second
}

// GetRelayInterval returns the relay poll interval as a Duration.
func (c *Config) GetRelayInterval() time.Duration {
	return time.Duration(c.Relay.Interval) * time.Second
}
