package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mrops-br/chaverito-api/internal/domain"
)

// Storage drivers for cart persistence
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	OTLP     OTLPConfig     `yaml:"otlp"`
	Storage  StorageConfig  `yaml:"storage"`
	Shipping ShippingConfig `yaml:"shipping"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
	// SecureCookies marks the session cookie Secure
	SecureCookies bool `yaml:"secure_cookies"`
}

type OTLPConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	// ExportEnabled turns off the OTLP exporters when false
	ExportEnabled bool `yaml:"export_enabled"`
}

type StorageConfig struct {
	Driver     string        `yaml:"driver"` // memory, sqlite, redis
	CartKey    string        `yaml:"cart_key"`
	SQLitePath string        `yaml:"sqlite_path"`
	RedisAddr  string        `yaml:"redis_addr"`
	RedisTTL   time.Duration `yaml:"redis_ttl"`
	// MaxSessions bounds the carts held in memory by the HTTP server
	MaxSessions int `yaml:"max_sessions"`
	// SessionIdleTTL drops in-memory carts not used for this long. Their
	// contents stay in storage.
	SessionIdleTTL time.Duration `yaml:"session_idle_ttl"`
}

type ShippingConfig struct {
	FreeThreshold string `yaml:"free_threshold"`
	Fee           string `yaml:"fee"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	policy := domain.DefaultShippingPolicy()
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
		},
		OTLP: OTLPConfig{
			Endpoint:      "localhost:4317",
			ServiceName:   "chaverito-api",
			Environment:   "development",
			ExportEnabled: true,
		},
		Storage: StorageConfig{
			Driver:     StorageSQLite,
			CartKey:    "chaverito-cart",
			SQLitePath: "data/chaverito.db",
			RedisAddr:  "localhost:6379",
			RedisTTL:   30 * 24 * time.Hour,

			MaxSessions:    10000,
			SessionIdleTTL: 30 * time.Minute,
		},
		Shipping: ShippingConfig{
			FreeThreshold: policy.FreeThreshold.StringFixed(2),
			Fee:           policy.Fee.StringFixed(2),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "parse config")
			}
		case !os.IsNotExist(err):
			return nil, errors.Wrap(err, "read config")
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() {
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.SecureCookies = getEnvBool("SERVER_SECURE_COOKIES", c.Server.SecureCookies)

	c.OTLP.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLP.Endpoint)
	c.OTLP.ServiceName = getEnv("OTEL_SERVICE_NAME", c.OTLP.ServiceName)
	c.OTLP.Environment = getEnv("OTEL_ENVIRONMENT", c.OTLP.Environment)
	c.OTLP.ExportEnabled = getEnvBool("OTEL_EXPORT_ENABLED", c.OTLP.ExportEnabled)

	c.Storage.Driver = getEnv("CART_STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.CartKey = getEnv("CART_STORAGE_KEY", c.Storage.CartKey)
	c.Storage.SQLitePath = getEnv("CART_SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.RedisAddr = getEnv("CART_REDIS_ADDR", c.Storage.RedisAddr)
	c.Storage.RedisTTL = getEnvDuration("CART_REDIS_TTL", c.Storage.RedisTTL)
	c.Storage.MaxSessions = getEnvInt("CART_MAX_SESSIONS", c.Storage.MaxSessions)
	c.Storage.SessionIdleTTL = getEnvDuration("CART_SESSION_IDLE_TTL", c.Storage.SessionIdleTTL)

	c.Shipping.FreeThreshold = getEnv("SHIPPING_FREE_THRESHOLD", c.Shipping.FreeThreshold)
	c.Shipping.Fee = getEnv("SHIPPING_FEE", c.Shipping.Fee)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageSQLite, StorageRedis:
	default:
		return errors.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.CartKey == "" {
		return errors.New("storage cart key is required")
	}
	if c.Storage.MaxSessions < 1 {
		return errors.Errorf("storage max sessions must be positive, got %d", c.Storage.MaxSessions)
	}
	if c.Storage.SessionIdleTTL <= 0 {
		return errors.Errorf("storage session idle ttl must be positive, got %s", c.Storage.SessionIdleTTL)
	}
	if _, err := c.ShippingPolicy(); err != nil {
		return err
	}
	return nil
}

// ShippingPolicy parses the shipping amounts
func (c *Config) ShippingPolicy() (domain.ShippingPolicy, error) {
	threshold, err := decimal.NewFromString(c.Shipping.FreeThreshold)
	if err != nil {
		return domain.ShippingPolicy{}, errors.Wrap(err, "shipping free threshold")
	}
	fee, err := decimal.NewFromString(c.Shipping.Fee)
	if err != nil {
		return domain.ShippingPolicy{}, errors.Wrap(err, "shipping fee")
	}
	if threshold.IsNegative() || fee.IsNegative() {
		return domain.ShippingPolicy{}, errors.New("shipping amounts must not be negative")
	}
	return domain.ShippingPolicy{FreeThreshold: threshold, Fee: fee}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}
