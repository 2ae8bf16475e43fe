package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Database configuration
	DatabaseURL       string        `json:"database_url"`
	DBMaxOpenConns    int           `json:"db_max_open_conns"`
	DBMaxIdleConns    int           `json:"db_max_idle_conns"`
	DBConnMaxLifetime time.Duration `json:"db_conn_max_lifetime"`

	// Redis configuration; an empty URL selects the in-process cache
	RedisURL    string        `json:"redis_url"`
	RedisPrefix string        `json:"redis_prefix"`
	CacheTTL    time.Duration `json:"cache_ttl"`

	// CloudFlare R2 Configuration
	R2Endpoint    string `json:"r2_endpoint"`
	R2AccessKey   string `json:"r2_access_key"`
	R2SecretKey   string `json:"r2_secret_key"`
	R2Bucket      string `json:"r2_bucket"`
	R2AccountID   string `json:"r2_account_id"`
	R2PublicURL   string `json:"r2_public_url"`
	MaxUploadSize int64  `json:"max_upload_size"`

	// Public site
	SiteName string `json:"site_name"`

	// Collection client used by cmsctl
	APIBaseURL    string        `json:"api_base_url"`
	ClientTimeout time.Duration `json:"client_timeout"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// Load loads configuration from environment variables.
// Callers decide which settings they need and call Validate or ValidateClient.
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	return &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// Database configuration
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		// Redis configuration
		RedisURL:    getEnv("REDIS_URL", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "visacms:"),
		CacheTTL:    getEnvAsDuration("CACHE_TTL", 5*time.Minute),

		// CloudFlare R2 Configuration
		R2Endpoint:    getEnv("R2_ENDPOINT", ""),
		R2AccessKey:   getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey:   getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:      getEnv("R2_BUCKET", "visacms"),
		R2AccountID:   getEnv("CLOUDFLARE_ACCOUNT_ID", ""),
		R2PublicURL:   getEnv("R2_PUBLIC_URL", ""),
		MaxUploadSize: getEnvAsInt64("MAX_UPLOAD_SIZE", 5<<20), // 5MB

		SiteName: getEnv("SITE_NAME", "VJC Overseas"),

		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:8080/api/v1"),
		ClientTimeout: getEnvAsDuration("CLIENT_TIMEOUT", 15*time.Second),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.MaxUploadSize))
	}
	return errors.Join(errs...)
}

// ValidateClient checks the settings cmsctl needs
func (c *Config) ValidateClient() error {
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	return nil
}

// UploadsEnabled reports whether enough R2 settings are present to accept uploads
func (c *Config) UploadsEnabled() bool {
	return c.R2AccessKey != "" && c.R2SecretKey != "" && c.R2Bucket != "" &&
		(c.R2Endpoint != "" || c.R2AccountID != "")
}

// IsDevelopment reports whether the app runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsInt64(name string, defaultVal int64) int64 {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
