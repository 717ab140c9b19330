package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds webhook HTTP server settings.
type ServerConfig struct {
	Listen string `yaml:"listen" envconfig:"SERVER_LISTEN"`
	Port   int    `yaml:"port" envconfig:"SERVER_PORT"`
	// VerifyToken is echoed back on the webhook verification handshake.
	VerifyToken string `yaml:"verify_token" envconfig:"WEBHOOK_VERIFY_TOKEN"`
}

// SessionConfig controls session lifetime and the backing store.
type SessionConfig struct {
	// TTLMs is the sliding inactivity window in milliseconds; 0 -> default 300000.
	TTLMs int    `yaml:"ttl_ms" envconfig:"SESSION_TTL_MS"`
	Store string `yaml:"store" envconfig:"SESSION_STORE"`
}

// ValkeyConfig holds Valkey connection settings for the valkey session store.
type ValkeyConfig struct {
	Address   string `yaml:"address" envconfig:"VALKEY_ADDRESS"`
	Password  string `yaml:"password" envconfig:"VALKEY_PASSWORD"`
	DB        int    `yaml:"db" envconfig:"VALKEY_DB"`
	KeyPrefix string `yaml:"key_prefix" envconfig:"VALKEY_KEY_PREFIX"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	File        string `yaml:"file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// DatabaseConfig holds postgres connection settings for the durable session store.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

const (
	// StoreMemory keeps session state in-process.
	StoreMemory = "memory"
	// StorePostgres persists session state in postgres.
	StorePostgres = "postgres"
	// StoreValkey keeps session state in a Valkey instance.
	StoreValkey = "valkey"
)

// DefaultSessionTTL is the sliding inactivity window after which a sender
// is treated as a fresh contact again.
const DefaultSessionTTL = 300000 * time.Millisecond

// Config aggregates the full service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Session  SessionConfig  `yaml:"session"`
	Database DatabaseConfig `yaml:"database"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SessionTTL returns the configured sliding window as a duration.
func (c *Config) SessionTTL() time.Duration {
	if c == nil || c.Session.TTLMs <= 0 {
		return DefaultSessionTTL
	}
	return time.Duration(c.Session.TTLMs) * time.Millisecond
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = "0.0.0.0"
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 3000
	}

	if cfg.Session.TTLMs < 0 {
		return fmt.Errorf("session.ttl_ms must be >= 0")
	}

	store := strings.ToLower(strings.TrimSpace(cfg.Session.Store))
	if store == "" {
		store = StoreMemory
	}
	switch store {
	case StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" {
			return fmt.Errorf("database.host is required when session.store is 'postgres'")
		}
		if strings.TrimSpace(cfg.Database.Name) == "" {
			return fmt.Errorf("database.name is required when session.store is 'postgres'")
		}
		if strings.TrimSpace(cfg.Database.Port) == "" {
			cfg.Database.Port = "5432"
		}
		if strings.TrimSpace(cfg.Database.SSLMode) == "" {
			cfg.Database.SSLMode = "disable"
		}
		if cfg.Database.MaxConnections <= 0 {
			cfg.Database.MaxConnections = 10
		}
	case StoreValkey:
		if strings.TrimSpace(cfg.Valkey.Address) == "" {
			return fmt.Errorf("valkey.address is required when session.store is 'valkey'")
		}
		if strings.TrimSpace(cfg.Valkey.KeyPrefix) == "" {
			cfg.Valkey.KeyPrefix = "warouter"
		}
	default:
		return fmt.Errorf("invalid session.store %q; allowed: memory, postgres, valkey", cfg.Session.Store)
	}
	cfg.Session.Store = store

	return nil
}
