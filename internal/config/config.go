package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidSecretsDriver = errors.New("SECRETS_DRIVER must be env or aws")
	ErrMissingRegion        = errors.New("SECRETS_AWS_REGION is required for aws secrets driver")
	ErrInvalidTimeout       = errors.New("TELEGRAM_TIMEOUT_SEC must be positive")
	ErrInvalidRecentLimit   = errors.New("TELEGRAM_RECENT_LIMIT must be between 1 and 100")
)

const (
	SecretsDriverEnv = "env"
	SecretsDriverAWS = "aws"
)

type Config struct {
	HTTP     HTTPConfig
	Telegram TelegramConfig
	Catalog  CatalogConfig
	Secrets  SecretsConfig
	Log      LogConfig
}

type HTTPConfig struct {
	ListenAddr      string
	ShutdownTimeout time.Duration
}

// TelegramConfig - настройки пробы ботов. Токенов здесь нет, они берутся из secrets.
type TelegramConfig struct {
	APIEndpoint     string
	Timeout         time.Duration
	RecentLimit     int
	IncludeMessages bool
	NotifyChatID    int64
}

type CatalogConfig struct {
	Path          string
	IncludeClosed bool
}

type SecretsConfig struct {
	Driver string
	Region string
	Prefix string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			ListenAddr:      getEnvOrDefault("LISTEN_ADDR", ":8080"),
			ShutdownTimeout: time.Duration(getEnvIntOrDefault("SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
		},
		Telegram: TelegramConfig{
			APIEndpoint:     getEnvOrDefault("TELEGRAM_API_ENDPOINT", "https://api.telegram.org/bot%s/%s"),
			Timeout:         time.Duration(getEnvIntOrDefault("TELEGRAM_TIMEOUT_SEC", 10)) * time.Second,
			RecentLimit:     getEnvIntOrDefault("TELEGRAM_RECENT_LIMIT", 5),
			IncludeMessages: getEnvBoolOrDefault("TELEGRAM_INCLUDE_MESSAGES", false),
			NotifyChatID:    getEnvInt64OrDefault("TELEGRAM_NOTIFY_CHAT_ID", 0),
		},
		Catalog: CatalogConfig{
			Path:          os.Getenv("CATALOG_PATH"),
			IncludeClosed: getEnvBoolOrDefault("CATALOG_INCLUDE_CLOSED", true),
		},
		Secrets: SecretsConfig{
			Driver: strings.ToLower(getEnvOrDefault("SECRETS_DRIVER", SecretsDriverEnv)),
			Region: os.Getenv("SECRETS_AWS_REGION"),
			Prefix: os.Getenv("SECRETS_PREFIX"),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Secrets.Driver {
	case SecretsDriverEnv:
	case SecretsDriverAWS:
		if c.Secrets.Region == "" {
			return ErrMissingRegion
		}
	default:
		return ErrInvalidSecretsDriver
	}
	if c.Telegram.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Telegram.RecentLimit < 1 || c.Telegram.RecentLimit > 100 {
		return ErrInvalidRecentLimit
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
