package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// validConfig returns a configuration that passes validation.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Zenoss.URL = "https://zenoss.example.com"
	return cfg
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
zenoss:
  url: "https://zenoss.example.com:8080"
  username: "admin"
  password: "zenoss"
  auth: "basic"
  timeout: 20
database:
  enabled: true
  path: "/tmp/test.db"
mqtt:
  enabled: true
  broker:
    host: "broker.local"
    port: 1883
  qos: 0
  topic_prefix: "noc"
relay:
  interval: 15
  limit: 50
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Zenoss.URL != "https://zenoss.example.com:8080" {
		t.Errorf("Zenoss.URL = %q", cfg.Zenoss.URL)
	}
	if cfg.Zenoss.Auth != "basic" {
		t.Errorf("Zenoss.Auth = %q, want basic", cfg.Zenoss.Auth)
	}
	if cfg.Zenoss.MountPath != "zport" {
		t.Errorf("Zenoss.MountPath = %q, default not kept", cfg.Zenoss.MountPath)
	}
	if cfg.MQTT.TopicPrefix != "noc" {
		t.Errorf("MQTT.TopicPrefix = %q, want noc", cfg.MQTT.TopicPrefix)
	}
	if got := cfg.GetTimeout().Seconds(); got != 20 {
		t.Errorf("GetTimeout() = %v, want 20", got)
	}
	if got := cfg.GetRelayInterval().Seconds(); got != 15 {
		t.Errorf("GetRelayInterval() = %v, want 15", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "invalid: [yaml: content")

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	configPath := writeConfig(t, `
zenoss:
  url: ""
`)

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty zenoss.url, got nil")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	configPath := writeConfig(t, `
zenoss:
  url: "http://from-file"
  password: "file-password"
`)
	t.Setenv("ZENOSS_PASSWORD", "env-password")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Zenoss.Password != "env-password" {
		t.Errorf("Zenoss.Password = %q, want env-password", cfg.Zenoss.Password)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("ZENOSS_URL", "http://zenoss.local:8080")
	t.Setenv("ZENOSS_USERNAME", "admin")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.Zenoss.URL != "http://zenoss.local:8080" || cfg.Zenoss.Username != "admin" {
		t.Errorf("Zenoss = %+v", cfg.Zenoss)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing url", mutate: func(c *Config) { c.Zenoss.URL = "" }, wantErr: "zenoss.url is required"},
		{name: "non-http url", mutate: func(c *Config) { c.Zenoss.URL = "ftp://zenoss" }, wantErr: "zenoss.url must be"},
		{name: "unknown auth", mutate: func(c *Config) { c.Zenoss.Auth = "ntlm" }, wantErr: "zenoss.auth"},
		{name: "negative timeout", mutate: func(c *Config) { c.Zenoss.Timeout = -1 }, wantErr: "zenoss.timeout"},
		{name: "cert without key", mutate: func(c *Config) { c.Zenoss.TLS.CertFile = "client.pem" }, wantErr: "cert_file"},
		{name: "file output without path", mutate: func(c *Config) { c.Logging.Output = "file" }, wantErr: "logging.file.path"},
		{name: "database without path", mutate: func(c *Config) {
			c.Database.Enabled = true
			c.Database.Path = ""
		}, wantErr: "database.path"},
		{name: "disabled database without path", mutate: func(c *Config) { c.Database.Path = "" }},
		{name: "invalid QoS", mutate: func(c *Config) { c.MQTT.QoS = 3 }, wantErr: "mqtt.qos"},
		{name: "mqtt without prefix", mutate: func(c *Config) {
			c.MQTT.Enabled = true
			c.MQTT.TopicPrefix = ""
		}, wantErr: "mqtt.topic_prefix"},
		{name: "influxdb without bucket", mutate: func(c *Config) {
			c.InfluxDB.Enabled = true
			c.InfluxDB.Bucket = ""
		}, wantErr: "influxdb.url"},
		{name: "zero relay interval", mutate: func(c *Config) { c.Relay.Interval = 0 }, wantErr: "relay.interval"},
		{name: "zero relay limit", mutate: func(c *Config) { c.Relay.Limit = 0 }, wantErr: "relay.limit"},
		{name: "short jwt secret", mutate: func(c *Config) { c.Relay.API.JWTSecret = "short" }, wantErr: "relay.api.jwt_secret"},
		{name: "zero token ttl", mutate: func(c *Config) { c.Relay.API.TokenTTL = 0 }, wantErr: "relay.api.token_ttl"},
		{name: "zero ping interval", mutate: func(c *Config) { c.Relay.WebSocket.PingInterval = 0 }, wantErr: "relay.websocket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Zenoss.URL = ""
	cfg.MQTT.QoS = 5

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	if !strings.Contains(err.Error(), "zenoss.url") || !strings.Contains(err.Error(), "mqtt.qos") {
		t.Errorf("Validate() error = %v, want both problems reported", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("ZENOSS_URL", "https://zenoss.example.com")
	t.Setenv("ZENOSS_USERNAME", "svc-monitor")
	t.Setenv("ZENOSS_PASSWORD", "s3cret")
	t.Setenv("ZENOSS_AUTH", "basic")
	t.Setenv("ZENOSS_DATABASE_PATH", "/custom/path.db")
	t.Setenv("ZENOSS_MQTT_HOST", "mqtt.example.com")
	t.Setenv("ZENOSS_MQTT_USERNAME", "testuser")
	t.Setenv("ZENOSS_MQTT_PASSWORD", "testpass")
	t.Setenv("ZENOSS_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("ZENOSS_RELAY_JWT_SECRET", "relay-secret")

	applyEnvOverrides(cfg)

	checks := []struct {
		field string
		got   string
		want  string
	}{
		{"Zenoss.URL", cfg.Zenoss.URL, "https://zenoss.example.com"},
		{"Zenoss.Username", cfg.Zenoss.Username, "svc-monitor"},
		{"Zenoss.Password", cfg.Zenoss.Password, "s3cret"},
		{"Zenoss.Auth", cfg.Zenoss.Auth, "basic"},
		{"Database.Path", cfg.Database.Path, "/custom/path.db"},
		{"MQTT.Broker.Host", cfg.MQTT.Broker.Host, "mqtt.example.com"},
		{"MQTT.Auth.Username", cfg.MQTT.Auth.Username, "testuser"},
		{"MQTT.Auth.Password", cfg.MQTT.Auth.Password, "testpass"},
		{"InfluxDB.Token", cfg.InfluxDB.Token, "secret-token"},
		{"Relay.API.JWTSecret", cfg.Relay.API.JWTSecret, "relay-secret"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Zenoss.Auth != "cookie" {
		t.Errorf("defaultConfig Zenoss.Auth = %q, want cookie", cfg.Zenoss.Auth)
	}
	if cfg.Zenoss.MountPath != "zport" {
		t.Errorf("defaultConfig Zenoss.MountPath = %q, want zport", cfg.Zenoss.MountPath)
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.Database.Enabled || cfg.MQTT.Enabled || cfg.InfluxDB.Enabled {
		t.Error("optional backends should be disabled by default")
	}
}
