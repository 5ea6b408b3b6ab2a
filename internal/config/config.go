// Package config loads application configuration from environment
// variables, with an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Exchange ExchangeConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Server   ServerConfig
}

// ExchangeConfig holds exchange API endpoints.
type ExchangeConfig struct {
	RESTBaseURL string
	WSEndpoint  string
	Timeout     time.Duration
	MaxRetries  int
}

// CacheConfig holds cache backend settings.
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// StorageConfig holds database DSNs. Empty DSN disables that backend.
type StorageConfig struct {
	PostgresDSN   string
	ClickhouseDSN string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	ListenAddr string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := &Config{
		Exchange: ExchangeConfig{
			RESTBaseURL: getEnvString("LENS_REST_URL", "https://mainnet.zklighter.elliot.ai"),
			WSEndpoint:  getEnvString("LENS_WS_URL", "wss://mainnet.zklighter.elliot.ai/stream"),
			Timeout:     getEnvDuration("LENS_HTTP_TIMEOUT", 30*time.Second),
			MaxRetries:  getEnvInt("LENS_HTTP_MAX_RETRIES", 3),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnvString("LENS_REDIS_ADDR", ""),
			RedisPassword: getEnvString("LENS_REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("LENS_REDIS_DB", 0),
			TTL:           getEnvDuration("LENS_CACHE_TTL", 5*time.Minute),
		},
		Storage: StorageConfig{
			PostgresDSN:   getEnvString("LENS_POSTGRES_DSN", ""),
			ClickhouseDSN: getEnvString("LENS_CLICKHOUSE_DSN", ""),
		},
		Server: ServerConfig{
			ListenAddr: getEnvString("LENS_LISTEN_ADDR", ":8080"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Exchange.RESTBaseURL == "" {
		return fmt.Errorf("exchange REST URL must not be empty")
	}
	if c.Exchange.MaxRetries < 0 {
		return fmt.Errorf("invalid max retries: %d", c.Exchange.MaxRetries)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("invalid cache ttl: %v", c.Cache.TTL)
	}
	return nil
}

// String returns a safe representation without credentials.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Exchange{REST:%s, WS:%s}, Cache{Redis:%s, TTL:%v}, Server{Addr:%s}",
		c.Exchange.RESTBaseURL, c.Exchange.WSEndpoint,
		c.Cache.RedisAddr, c.Cache.TTL, c.Server.ListenAddr,
	)
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
