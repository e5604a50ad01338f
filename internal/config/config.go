package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	StoreURL    string `envconfig:"STORE_URL" required:"true"`
	StoreAPIKey string `envconfig:"STORE_API_KEY" required:"true"`
	StoreTable  string `envconfig:"STORE_TABLE" default:"stocks"`

	DatabaseMaxConns    int32         `envconfig:"DATABASE_MAX_CONNS" default:"25"`
	DatabaseMinConns    int32         `envconfig:"DATABASE_MIN_CONNS" default:"2"`
	DatabaseMaxConnLife time.Duration `envconfig:"DATABASE_MAX_CONN_LIFE" default:"1h"`

	RedisURL        string        `envconfig:"REDIS_URL"`
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	DefaultLimit  int `envconfig:"DEFAULT_LIMIT" default:"100"`
	MaxLimit      int `envconfig:"MAX_LIMIT" default:"1000"`
	ExportWorkers int `envconfig:"EXPORT_WORKERS" default:"4"`

	APIHost         string        `envconfig:"API_HOST" default:"0.0.0.0"`
	APIPort         string        `envconfig:"API_PORT" default:"8000"`
	APIReadTimeout  time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	APIWriteTimeout time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"10s"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile     string `envconfig:"LOG_FILE"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

// ConfigurationError indica configuração ausente ou inválida. É fatal na inicialização.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("configuração inválida: %s", e.Reason)
	}
	return fmt.Sprintf("configuração inválida (%s): %s", e.Key, e.Reason)
}

// Load lê um .env opcional e depois as variáveis de ambiente.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv lê somente o ambiente do processo, sem .env.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.StoreURL) == "" {
		return &ConfigurationError{Key: "STORE_URL", Reason: "obrigatório"}
	}
	if strings.TrimSpace(c.StoreAPIKey) == "" {
		return &ConfigurationError{Key: "STORE_API_KEY", Reason: "obrigatório"}
	}
	if c.DefaultLimit <= 0 {
		return &ConfigurationError{Key: "DEFAULT_LIMIT", Reason: "deve ser maior que zero"}
	}
	if c.MaxLimit < c.DefaultLimit {
		return &ConfigurationError{Key: "MAX_LIMIT", Reason: "deve ser maior ou igual a DEFAULT_LIMIT"}
	}
	if c.ExportWorkers <= 0 {
		c.ExportWorkers = 1
	}
	return nil
}

func (c *Config) Development() bool {
	return c.Environment == "development"
}
