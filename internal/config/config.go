package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/wenwu/saas-platform/pricing-service/internal/pricing"
)

// Storage backend selectors. Exactly one backend is active per deployment.
const (
	StorageRedis = "redis"
	StorageFile  = "file"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Scraper ScraperConfig
	Quotes  QuotesConfig
	Env     string
}

type ServerConfig struct {
	Host string
	Port string
	Mode string
}

type StorageConfig struct {
	Type     string
	RedisURL string
	DataDir  string
}

type ScraperConfig struct {
	Timeout       time.Duration
	SyncInterval  time.Duration // 0 disables the background scheduler
	DefaultRegion string
}

type QuotesConfig struct {
	MaxQuotes int
	TTL       time.Duration // 0 means quotes never expire
}

// Load reads configuration from the environment. A .env file is honored for
// local development but never required.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", ""),
			Port: getEnv("SERVER_PORT", "8006"),
			Mode: getEnv("GIN_MODE", "release"),
		},
		Storage: StorageConfig{
			Type:     getEnv("STORAGE_TYPE", StorageFile),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
			DataDir:  getEnv("DATA_DIR", "data"),
		},
		Scraper: ScraperConfig{
			Timeout:       time.Duration(getEnvInt("SCRAPE_TIMEOUT_SECONDS", 30)) * time.Second,
			SyncInterval:  time.Duration(getEnvInt("SYNC_INTERVAL_MINUTES", 0)) * time.Minute,
			DefaultRegion: getEnv("DEFAULT_REGION", "us1"),
		},
		Quotes: QuotesConfig{
			MaxQuotes: getEnvInt("MAX_QUOTES", 500),
			TTL:       time.Duration(getEnvInt("QUOTE_TTL_DAYS", 0)) * 24 * time.Hour,
		},
		Env: getEnv("APP_ENV", "production"),
	}
}

// Validate checks configuration consistency before the service starts.
func (c *Config) Validate() error {
	if c.Storage.Type != StorageRedis && c.Storage.Type != StorageFile {
		return fmt.Errorf("STORAGE_TYPE must be %q or %q, got %q", StorageRedis, StorageFile, c.Storage.Type)
	}
	if c.Storage.Type == StorageRedis && c.Storage.RedisURL == "" {
		return fmt.Errorf("REDIS_URL must be set when STORAGE_TYPE is %q", StorageRedis)
	}
	if _, ok := pricing.RegionByID(c.Scraper.DefaultRegion); !ok {
		return fmt.Errorf("DEFAULT_REGION %q is not a known region", c.Scraper.DefaultRegion)
	}
	if c.Quotes.MaxQuotes <= 0 {
		return fmt.Errorf("MAX_QUOTES must be positive, got %d", c.Quotes.MaxQuotes)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
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
