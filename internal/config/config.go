package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	Postgres   PostgresConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Vendor     VendorConfig
	SyncWorker SyncWorkerConfig
	Migrate    bool
	HTTPAddr   string
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	DSN string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
	Issuer        string
}

// VendorConfig holds DNS hosting vendor API configuration
type VendorConfig struct {
	BaseURL    string
	Email      string
	APIKey     string
	TenantID   string
	TimeoutSec int
}

// SyncWorkerConfig holds DNS record sync worker configuration
type SyncWorkerConfig struct {
	Enabled     bool
	IntervalSec int
	BatchSize   int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Postgres: PostgresConfig{
			DSN: getEnv("POSTGRES_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			ExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 1440),
			Issuer:        getEnv("JWT_ISSUER", "govdns"),
		},
		Vendor: VendorConfig{
			BaseURL:    getEnv("VENDOR_BASE_URL", "https://api.cloudflare.com/client/v4"),
			Email:      getEnv("VENDOR_EMAIL", ""),
			APIKey:     getEnv("VENDOR_API_KEY", ""),
			TenantID:   getEnv("VENDOR_TENANT_ID", ""),
			TimeoutSec: getEnvInt("VENDOR_TIMEOUT_SEC", 10),
		},
		SyncWorker: SyncWorkerConfig{
			Enabled:     getEnv("SYNC_WORKER_ENABLED", "1") == "1",
			IntervalSec: getEnvInt("SYNC_WORKER_INTERVAL_SEC", 30),
			BatchSize:   getEnvInt("SYNC_WORKER_BATCH_SIZE", 10),
		},
		Migrate:  getEnv("MIGRATE", "0") == "1",
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// Validate required fields
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
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

// LoadFromINI loads configuration from INI file with environment variable override
func LoadFromINI(iniPath string) (*Config, error) {
	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	// Priority: ENV > INI > default
	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			return value
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := os.Getenv(envKey); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		if cfgFile.Section(iniSection).HasKey(iniKey) {
			if value, err := cfgFile.Section(iniSection).Key(iniKey).Int(); err == nil {
				return value
			}
		}
		return defaultValue
	}

	getValueBool := func(envKey, iniSection, iniKey string, defaultValue bool) bool {
		if value := os.Getenv(envKey); value != "" {
			return value == "1" || value == "true"
		}
		if value, err := cfgFile.Section(iniSection).Key(iniKey).Bool(); err == nil {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		Postgres: PostgresConfig{
			DSN: getValue("POSTGRES_DSN", "postgres", "dsn", ""),
		},
		Redis: RedisConfig{
			Addr:     getValue("REDIS_ADDR", "redis", "addr", "localhost:6379"),
			Password: getValue("REDIS_PASS", "redis", "pass", ""),
			DB:       getValueInt("REDIS_DB", "redis", "db", 0),
		},
		JWT: JWTConfig{
			Secret:        getValue("JWT_SECRET", "jwt", "secret", ""),
			ExpireMinutes: getValueInt("JWT_EXPIRE_MINUTES", "jwt", "expire_minutes", 1440),
			Issuer:        getValue("JWT_ISSUER", "jwt", "issuer", "govdns"),
		},
		Vendor: VendorConfig{
			BaseURL:    getValue("VENDOR_BASE_URL", "vendor", "base_url", "https://api.cloudflare.com/client/v4"),
			Email:      getValue("VENDOR_EMAIL", "vendor", "email", ""),
			APIKey:     getValue("VENDOR_API_KEY", "vendor", "api_key", ""),
			TenantID:   getValue("VENDOR_TENANT_ID", "vendor", "tenant_id", ""),
			TimeoutSec: getValueInt("VENDOR_TIMEOUT_SEC", "vendor", "timeout_sec", 10),
		},
		SyncWorker: SyncWorkerConfig{
			Enabled:     getValueBool("SYNC_WORKER_ENABLED", "sync_worker", "enabled", true),
			IntervalSec: getValueInt("SYNC_WORKER_INTERVAL_SEC", "sync_worker", "interval_sec", 30),
			BatchSize:   getValueInt("SYNC_WORKER_BATCH_SIZE", "sync_worker", "batch_size", 10),
		},
		Migrate:  getValueBool("MIGRATE", "app", "migrate", false),
		HTTPAddr: getValue("HTTP_ADDR", "http", "addr", ":8080"),
	}

	// Validate required fields
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
