package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type StorageConfig struct {
	Backend    string `mapstructure:"backend"`
	RedisURL   string `mapstructure:"redis_url"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
	Namespace  string `mapstructure:"namespace"`
	Shape      string `mapstructure:"shape"`
	MaxHistory int    `mapstructure:"max_history"`
}

type WebhookConfig struct {
	Mode         string `mapstructure:"mode"`
	Path         string `mapstructure:"path"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TTL returns the configured record time-to-live as a duration.
func (c StorageConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("storage.backend", "redis")
	v.SetDefault("storage.redis_url", "redis://127.0.0.1:6379/0")
	v.SetDefault("storage.ttl_seconds", 86400)
	v.SetDefault("storage.namespace", "tech4")
	v.SetDefault("storage.shape", "latest")
	v.SetDefault("storage.max_history", 1000)
	v.SetDefault("webhook.mode", "open")
	v.SetDefault("webhook.path", "/webhooks/tech4")
	v.SetDefault("webhook.max_body_bytes", 1048576)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/webhook-receiver")
	}

	// Environment variables override
	v.SetEnvPrefix("WEBHOOK")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown storage backend: %s (supported: redis, memory)", c.Storage.Backend)
	}
	switch c.Storage.Shape {
	case "latest", "history":
	default:
		return fmt.Errorf("unknown storage shape: %s (supported: latest, history)", c.Storage.Shape)
	}
	switch c.Webhook.Mode {
	case "open", "cloudevents":
	default:
		return fmt.Errorf("unknown webhook mode: %s (supported: open, cloudevents)", c.Webhook.Mode)
	}
	if c.Storage.MaxHistory < 1 {
		return fmt.Errorf("storage.max_history must be at least 1")
	}
	return nil
}
